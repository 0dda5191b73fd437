package model

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Property Types
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeDuplex    PropertyType = "duplex"
	PropertyTypeBungalow  PropertyType = "bungalow"
	PropertyTypeTownhouse PropertyType = "townhouse"
)

func PropertyTypes() []PropertyType {
	return []PropertyType{
		PropertyTypeHouse,
		PropertyTypeApartment,
		PropertyTypeStudio,
		PropertyTypeDuplex,
		PropertyTypeBungalow,
		PropertyTypeTownhouse,
	}
}

type Listing struct {
	gorm.Model
	Title       string       `json:"title" gorm:"not null"`
	Slug        string       `json:"slug" gorm:"uniqueIndex:idx_user_listing_slug;not null"`
	Type        PropertyType `json:"type" gorm:"not null"`
	Price       float64      `json:"price" gorm:"type:decimal(12,2);not null"`
	Description string       `json:"description" gorm:"type:text"`

	UserID uint `json:"user_id" gorm:"uniqueIndex:idx_user_listing_slug"`

	// Location fields
	AddressLine string `json:"address_line" gorm:"not null"`
	City        string `json:"city" gorm:"not null;index"`
	County      string `json:"county" gorm:"not null;index"`
	Eircode     string `json:"eircode"`

	// Features fields
	Bedrooms    int      `json:"bedrooms" gorm:"not null"`
	Bathrooms   int      `json:"bathrooms" gorm:"not null"`
	FloorAreaM2 *float64 `json:"floor_area_m2" gorm:"type:decimal(8,2)"` // opsiyonel

	// Soft delete: satır silinmez, pasife çekilir
	IsActive bool `json:"is_active" gorm:"default:true;index"`

	// İlişkiler
	User   User           `json:"-" gorm:"foreignKey:UserID"`
	Images []ListingImage `json:"images" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

type ListingImage struct {
	gorm.Model
	ListingID uint   `json:"listing_id" gorm:"index"`
	URL       string `json:"url" gorm:"not null"`
	IsCover   bool   `json:"is_cover" gorm:"default:false"`
	Position  int    `json:"position" gorm:"default:0"`

	Listing Listing `json:"-" gorm:"foreignKey:ListingID"`
}

// BeforeCreate listing oluşturulurken slug'ı otomatik oluşturur
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.Slug == "" {
		s := slug.Make(l.Title)

		// Slug'ın kullanıcı içinde benzersiz olduğundan emin ol
		var count int64
		tx.Model(&Listing{}).Where("user_id = ? AND slug = ?", l.UserID, s).Count(&count)
		if count > 0 {
			s = s + "-" + l.CreatedAt.Format("20060102150405")
		}

		l.Slug = s
	}
	return nil
}

// PricePerSqm fiyatı metrekareye böler; alan yoksa veya sıfırsa nil döner.
// Değer hiçbir zaman saklanmaz, okuma anında hesaplanır.
func (l *Listing) PricePerSqm() *float64 {
	if l.FloorAreaM2 == nil || *l.FloorAreaM2 <= 0 {
		return nil
	}
	v := l.Price / *l.FloorAreaM2
	return &v
}
