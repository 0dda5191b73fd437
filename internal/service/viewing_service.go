package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/query"
	"homesaver_backend/pkg/apperr"
)

type ViewingService struct {
	db *gorm.DB
}

func NewViewingService(db *gorm.DB) *ViewingService {
	return &ViewingService{db: db}
}

type ViewingInput struct {
	ListingID       uint      `json:"listing_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}

type ViewingUpdate struct {
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	Attended        *bool      `json:"attended"`
	Notes           *string    `json:"notes"`
	Rating          *int       `json:"rating"`
}

// Create randevu oluşturur. İlan aktif olmalı; aynı (user, listing) için
// saved property varsa oluşturma anında bağlanır, sonradan asla.
func (s *ViewingService) Create(userID uint, in ViewingInput) (*model.Viewing, error) {
	if in.ListingID == 0 {
		return nil, apperr.Validation("listing_id is required")
	}
	if in.ScheduledAt.IsZero() {
		return nil, apperr.Validation("scheduled_at is required")
	}

	var listing model.Listing
	if err := s.db.First(&listing, in.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Listing not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch listing", err)
	}
	if !listing.IsActive {
		return nil, apperr.Validation("Listing is no longer active")
	}

	viewing := model.Viewing{
		UserID:          userID,
		ListingID:       in.ListingID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}
	if viewing.DurationMinutes <= 0 {
		viewing.DurationMinutes = 30
	}

	// Opportunistik bağlama
	var saved model.SavedProperty
	err := s.db.Where("user_id = ? AND listing_id = ?", userID, in.ListingID).First(&saved).Error
	if err == nil {
		viewing.SavedPropertyID = &saved.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch saved property", err)
	}

	if err := s.db.Create(&viewing).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not create viewing", err)
	}

	return s.Get(userID, viewing.ID)
}

func (s *ViewingService) Get(userID, id uint) (*model.Viewing, error) {
	if _, err := verifyOwnership[model.Viewing](s.db, id, userID, "viewing"); err != nil {
		return nil, err
	}

	var viewing model.Viewing
	err := s.db.
		Preload("Listing").
		Preload("Listing.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.position ASC")
		}).
		First(&viewing, id).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch viewing", err)
	}
	return &viewing, nil
}

func (s *ViewingService) List(userID uint, p query.Pagination) ([]model.Viewing, query.PageMeta, error) {
	p.Normalize(10)

	scope := func(db *gorm.DB) *gorm.DB {
		return db.Preload("Listing").Where("user_id = ?", userID)
	}

	var viewings []model.Viewing
	meta, err := query.FindPage(s.db, scope, "scheduled_at DESC", p, &viewings)
	if err != nil {
		return nil, query.PageMeta{}, apperr.Wrap(apperr.KindInternal, "Could not fetch viewings", err)
	}
	return viewings, meta, nil
}

// Upcoming gelecekteki, henüz gidilmemiş randevular; tarihe göre artan
func (s *ViewingService) Upcoming(userID uint) ([]model.Viewing, error) {
	var viewings []model.Viewing
	err := s.db.
		Preload("Listing").
		Where("user_id = ? AND attended = ? AND scheduled_at > ?", userID, false, time.Now()).
		Order("scheduled_at ASC").
		Find(&viewings).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch upcoming viewings", err)
	}
	return viewings, nil
}

func (s *ViewingService) Update(userID, id uint, in ViewingUpdate) (*model.Viewing, error) {
	viewing, err := verifyOwnership[model.Viewing](s.db, id, userID, "viewing")
	if err != nil {
		return nil, err
	}

	if in.ScheduledAt == nil && in.DurationMinutes == nil && in.Attended == nil && in.Notes == nil && in.Rating == nil {
		return nil, apperr.Validation("No fields to update")
	}

	if in.ScheduledAt != nil {
		viewing.ScheduledAt = *in.ScheduledAt
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return nil, apperr.Validation("Duration must be greater than zero")
		}
		viewing.DurationMinutes = *in.DurationMinutes
	}
	if in.Attended != nil {
		viewing.Attended = *in.Attended
	}
	if in.Notes != nil {
		viewing.Notes = *in.Notes
	}
	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return nil, apperr.Validation("Rating must be between 1 and 5")
		}
		viewing.Rating = in.Rating
	}

	if err := s.db.Save(viewing).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not update viewing", err)
	}

	return s.Get(userID, id)
}

func (s *ViewingService) Delete(userID, id uint) error {
	viewing, err := verifyOwnership[model.Viewing](s.db, id, userID, "viewing")
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(viewing).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "Could not delete viewing", err)
	}
	return nil
}
