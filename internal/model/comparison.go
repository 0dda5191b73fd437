package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Comparison kullanıcının yan yana karşılaştırdığı ilan listesi. Üyelik id
// ile tutulur, canlı referans ile değil: sonradan pasife çekilen bir ilan
// mevcut karşılaştırmadan silinmez ama güncellemede tekrar doğrulanır.
type Comparison struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index"`
	Name   string `json:"name" gorm:"not null"`

	// Sıralı üyelik, en az iki ilan
	ListingIDs datatypes.JSONSlice[uint] `json:"listing_ids"`

	// İlişkiler
	User User `json:"-" gorm:"foreignKey:UserID"`
}

const MinComparisonListings = 2
