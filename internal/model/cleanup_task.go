package model

import (
	"time"

	"gorm.io/gorm"
)

// CleanupTask silinememiş bir remote objenin tekrar denenecek kaydı.
// Update/delete yolunda remote silme best-effort çalışır; başarısız olanlar
// buraya yazılır ve cron job tarafından tekrar denenir.
type CleanupTask struct {
	gorm.Model
	ObjectURL   string     `json:"object_url" gorm:"not null;uniqueIndex"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	LastError   string     `json:"last_error"`
	LastTriedAt *time.Time `json:"last_tried_at"`
}
