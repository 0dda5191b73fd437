package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Saved Property Status
type SavedStatus string

const (
	SavedStatusSaved      SavedStatus = "saved"
	SavedStatusInterested SavedStatus = "interested"
	SavedStatusViewed     SavedStatus = "viewed"
	SavedStatusApplied    SavedStatus = "applied"
	SavedStatusRejected   SavedStatus = "rejected"
)

func SavedStatuses() []SavedStatus {
	return []SavedStatus{
		SavedStatusSaved,
		SavedStatusInterested,
		SavedStatusViewed,
		SavedStatusApplied,
		SavedStatusRejected,
	}
}

type SavedProperty struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index;uniqueIndex:idx_user_listing_save"`
	ListingID uint `json:"listing_id" gorm:"index;uniqueIndex:idx_user_listing_save"`

	Status SavedStatus                 `json:"status" gorm:"not null;default:'saved'"`
	Notes  string                      `json:"notes" gorm:"type:text"`
	Pros   datatypes.JSONSlice[string] `json:"pros"`
	Cons   datatypes.JSONSlice[string] `json:"cons"`

	// İlişkiler
	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Listing Listing `json:"listing" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Tags    []Tag   `json:"tags" gorm:"many2many:saved_property_tags;"`
}
