package model

import (
	"time"

	"gorm.io/gorm"
)

type Tag struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_user_tag_name"`
	Name   string `json:"name" gorm:"not null;uniqueIndex:idx_user_tag_name"`
	Color  string `json:"color"`

	// İlişkiler
	User            User            `json:"-" gorm:"foreignKey:UserID"`
	SavedProperties []SavedProperty `json:"-" gorm:"many2many:saved_property_tags;"`
}

// SavedPropertyTag tag ile saved property arasındaki join kaydı
type SavedPropertyTag struct {
	SavedPropertyID uint `json:"saved_property_id" gorm:"primaryKey"`
	TagID           uint `json:"tag_id" gorm:"primaryKey"`
	CreatedAt       time.Time
}

// SetupJoinTables many2many ilişkileri explicit join modeline bağlar
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&SavedProperty{}, "Tags", &SavedPropertyTag{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Tag{}, "SavedProperties", &SavedPropertyTag{})
}
