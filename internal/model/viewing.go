package model

import (
	"time"

	"gorm.io/gorm"
)

type Viewing struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index"`
	ListingID uint `json:"listing_id" gorm:"index"`

	// Aynı (user, listing) için saved property varsa oluşturma anında bağlanır
	SavedPropertyID *uint `json:"saved_property_id" gorm:"index"`

	ScheduledAt     time.Time `json:"scheduled_at" gorm:"not null;index"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:30"`
	Attended        bool      `json:"attended" gorm:"default:false"`
	Notes           string    `json:"notes" gorm:"type:text"`
	Rating          *int      `json:"rating"` // 1-5, görüşme sonrası

	// İlişkiler
	User          User           `json:"-" gorm:"foreignKey:UserID"`
	Listing       Listing        `json:"listing" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	SavedProperty *SavedProperty `json:"-" gorm:"foreignKey:SavedPropertyID"`
}
