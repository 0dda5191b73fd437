package service

import (
	"time"

	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/apperr"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardStats kullanıcının genel görünümü
type DashboardStats struct {
	TotalListings    int64            `json:"total_listings"`
	ActiveListings   int64            `json:"active_listings"`
	SavedProperties  int64            `json:"saved_properties"`
	SavedByStatus    map[string]int64 `json:"saved_by_status"`
	UpcomingViewings int64            `json:"upcoming_viewings"`
	Comparisons      int64            `json:"comparisons"`
	Tags             int64            `json:"tags"`
}

func (s *DashboardService) Stats(userID uint) (*DashboardStats, error) {
	stats := DashboardStats{SavedByStatus: make(map[string]int64)}

	db := s.db

	db.Model(&model.Listing{}).Where("user_id = ?", userID).Count(&stats.TotalListings)
	db.Model(&model.Listing{}).Where("user_id = ? AND is_active = ?", userID, true).Count(&stats.ActiveListings)
	db.Model(&model.SavedProperty{}).Where("user_id = ?", userID).Count(&stats.SavedProperties)

	var byStatus []struct {
		Status string
		Count  int64
	}
	err := db.Model(&model.SavedProperty{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch stats", err)
	}
	for _, row := range byStatus {
		stats.SavedByStatus[row.Status] = row.Count
	}

	db.Model(&model.Viewing{}).
		Where("user_id = ? AND attended = ? AND scheduled_at > ?", userID, false, time.Now()).
		Count(&stats.UpcomingViewings)
	db.Model(&model.Comparison{}).Where("user_id = ?", userID).Count(&stats.Comparisons)
	db.Model(&model.Tag{}).Where("user_id = ?", userID).Count(&stats.Tags)

	return &stats, nil
}
