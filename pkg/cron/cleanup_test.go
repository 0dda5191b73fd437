package cron_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/cron"
)

// flakyStorage belirtilen URL'ler için delete'i bozar
type flakyStorage struct {
	failing map[string]bool
	deleted []string
}

func (f *flakyStorage) Upload(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (f *flakyStorage) Delete(_ context.Context, objectURL string) error {
	if f.failing[objectURL] {
		return fmt.Errorf("provider unavailable")
	}
	f.deleted = append(f.deleted, objectURL)
	return nil
}

func setupQueueDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.CleanupTask{}))
	return db
}

func TestDrainCleanupQueueDeletesCompletedTasks(t *testing.T) {
	db := setupQueueDB(t)
	store := &flakyStorage{failing: map[string]bool{}}

	assert.NoError(t, db.Create(&model.CleanupTask{ObjectURL: "https://cdn.test/a.webp"}).Error)
	assert.NoError(t, db.Create(&model.CleanupTask{ObjectURL: "https://cdn.test/b.webp"}).Error)

	cron.DrainCleanupQueue(db, store)

	var remaining int64
	assert.NoError(t, db.Model(&model.CleanupTask{}).Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)
	assert.ElementsMatch(t, []string{"https://cdn.test/a.webp", "https://cdn.test/b.webp"}, store.deleted)
}

func TestDrainCleanupQueueRecordsFailedAttempts(t *testing.T) {
	db := setupQueueDB(t)
	store := &flakyStorage{failing: map[string]bool{"https://cdn.test/stuck.webp": true}}

	assert.NoError(t, db.Create(&model.CleanupTask{ObjectURL: "https://cdn.test/stuck.webp"}).Error)
	assert.NoError(t, db.Create(&model.CleanupTask{ObjectURL: "https://cdn.test/fine.webp"}).Error)

	cron.DrainCleanupQueue(db, store)

	var stuck model.CleanupTask
	assert.NoError(t, db.Where("object_url = ?", "https://cdn.test/stuck.webp").First(&stuck).Error)
	assert.Equal(t, 1, stuck.Attempts)
	assert.Equal(t, "provider unavailable", stuck.LastError)
	assert.NotNil(t, stuck.LastTriedAt)

	// Başarılı olan kuyruğu terk eder, takılan kalır
	var remaining int64
	assert.NoError(t, db.Model(&model.CleanupTask{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestDrainCleanupQueueSkipsExhaustedTasks(t *testing.T) {
	db := setupQueueDB(t)
	store := &flakyStorage{failing: map[string]bool{}}

	assert.NoError(t, db.Create(&model.CleanupTask{ObjectURL: "https://cdn.test/dead.webp", Attempts: 10}).Error)

	cron.DrainCleanupQueue(db, store)

	assert.Empty(t, store.deleted)

	var task model.CleanupTask
	assert.NoError(t, db.Where("object_url = ?", "https://cdn.test/dead.webp").First(&task).Error)
	assert.Equal(t, 10, task.Attempts)
}
