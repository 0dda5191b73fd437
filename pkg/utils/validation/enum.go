package validation

// ValidEnum kapalı değer kümeleri için tek doğrulama noktası. Her alan tipi
// için ayrı "geçerli mi" kontrolü yazılmaz.
func ValidEnum[T comparable](value T, allowed []T) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
