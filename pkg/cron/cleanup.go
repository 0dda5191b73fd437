package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/utils/storage"
)

const (
	maxCleanupAttempts = 10
	cleanupBatchSize   = 50
)

// InitCleanupCron silinememiş remote objelerin retry kuyruğunu periyodik
// boşaltan job'ı başlatır. Her task idempotent: obje zaten yoksa sağlayıcı
// delete'i başarılı sayar, kayıt kapanır.
func InitCleanupCron(db *gorm.DB, store storage.ObjectStorage) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("*/15 * * * *", func() {
		DrainCleanupQueue(db, store)
	})
	if err != nil {
		log.Printf("Could not initialize cleanup cron: %v", err)
		return c
	}

	c.Start()
	return c
}

func DrainCleanupQueue(db *gorm.DB, store storage.ObjectStorage) {
	var tasks []model.CleanupTask
	err := db.Where("attempts < ?", maxCleanupAttempts).
		Order("created_at ASC").
		Limit(cleanupBatchSize).
		Find(&tasks).Error
	if err != nil {
		log.Printf("cleanup: could not fetch queue: %v", err)
		return
	}

	if len(tasks) == 0 {
		return
	}
	log.Printf("cleanup: retrying %d dangling objects", len(tasks))

	for _, task := range tasks {
		if err := store.Delete(context.Background(), task.ObjectURL); err != nil {
			now := time.Now()
			db.Model(&task).Updates(map[string]interface{}{
				"attempts":      task.Attempts + 1,
				"last_error":    err.Error(),
				"last_tried_at": &now,
			})
			continue
		}
		db.Unscoped().Delete(&task)
	}
}
