package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	Name  string `json:"name" gorm:"not null"`

	// Tam olarak tek bir kimlik yolu dolu olur: lokal şifre hash'i veya
	// federated provider id.
	PasswordHash string  `json:"-"`
	ProviderID   *string `json:"-" gorm:"uniqueIndex"`

	// İlişkiler
	Listings        []Listing       `json:"-"`
	SavedProperties []SavedProperty `json:"-"`
	Viewings        []Viewing       `json:"-"`
	Comparisons     []Comparison    `json:"-"`
	Tags            []Tag           `json:"-"`
}

// IsFederated hesabın harici bir kimlik sağlayıcısıyla mı açıldığını söyler
func (u *User) IsFederated() bool {
	return u.ProviderID != nil && *u.ProviderID != ""
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"federated":  u.IsFederated(),
		"created_at": u.CreatedAt,
	}
}
