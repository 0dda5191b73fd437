package service

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/query"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/validation"
)

type SavedPropertyService struct {
	db *gorm.DB
}

func NewSavedPropertyService(db *gorm.DB) *SavedPropertyService {
	return &SavedPropertyService{db: db}
}

type SaveInput struct {
	ListingID uint               `json:"listing_id"`
	Status    *model.SavedStatus `json:"status"`
	Notes     *string            `json:"notes"`
	Pros      []string           `json:"pros"`
	Cons      []string           `json:"cons"`
}

// SavedPropertyUpdate kısmi güncelleme; nil alanlar dokunulmaz demektir
type SavedPropertyUpdate struct {
	Status *model.SavedStatus `json:"status"`
	Notes  *string            `json:"notes"`
	Pros   []string           `json:"pros"`
	Cons   []string           `json:"cons"`
}

// Create ilanı takibe alır. İlan aktif olmalı; aynı (user, listing) çifti
// ikinci kez kaydedilemez, sessizce birleştirilmez.
func (s *SavedPropertyService) Create(userID uint, in SaveInput) (*model.SavedProperty, error) {
	if in.ListingID == 0 {
		return nil, apperr.Validation("listing_id is required")
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

	saved := model.SavedProperty{
		UserID:    userID,
		ListingID: in.ListingID,
		Status:    model.SavedStatusSaved,
	}
	if in.Status != nil {
		if !validation.ValidEnum(*in.Status, model.SavedStatuses()) {
			return nil, apperr.Validation("Invalid status")
		}
		saved.Status = *in.Status
	}
	if in.Notes != nil {
		saved.Notes = *in.Notes
	}
	if in.Pros != nil {
		saved.Pros = datatypes.NewJSONSlice(in.Pros)
	}
	if in.Cons != nil {
		saved.Cons = datatypes.NewJSONSlice(in.Cons)
	}

	// Uniqueness otoritesi composite index; çakışma validation olarak döner
	if err := s.db.Create(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("Listing is already saved")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not save listing", err)
	}

	return s.Get(userID, saved.ID)
}

func preloadSaved(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Listing").
		Preload("Listing.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.position ASC")
		}).
		Preload("Tags")
}

func (s *SavedPropertyService) Get(userID, id uint) (*model.SavedProperty, error) {
	if _, err := verifyOwnership[model.SavedProperty](s.db, id, userID, "saved property"); err != nil {
		return nil, err
	}

	var saved model.SavedProperty
	if err := preloadSaved(s.db).First(&saved, id).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch saved property", err)
	}
	return &saved, nil
}

// List kullanıcının takip listesi; opsiyonel status filtresi
func (s *SavedPropertyService) List(userID uint, status *model.SavedStatus, p query.Pagination) ([]model.SavedProperty, query.PageMeta, error) {
	p.Normalize(10)

	if status != nil && !validation.ValidEnum(*status, model.SavedStatuses()) {
		return nil, query.PageMeta{}, apperr.Validation("Invalid status")
	}

	scope := func(db *gorm.DB) *gorm.DB {
		db = preloadSaved(db).Where("user_id = ?", userID)
		if status != nil {
			db = db.Where("status = ?", *status)
		}
		return db
	}

	var saved []model.SavedProperty
	meta, err := query.FindPage(s.db, scope, "created_at DESC", p, &saved)
	if err != nil {
		return nil, query.PageMeta{}, apperr.Wrap(apperr.KindInternal, "Could not fetch saved properties", err)
	}
	return saved, meta, nil
}

// Update kısmi alan seti kabul eder; tanınan hiçbir alan gelmezse çağrı
// komple reddedilir
func (s *SavedPropertyService) Update(userID, id uint, in SavedPropertyUpdate) (*model.SavedProperty, error) {
	saved, err := verifyOwnership[model.SavedProperty](s.db, id, userID, "saved property")
	if err != nil {
		return nil, err
	}

	if in.Status == nil && in.Notes == nil && in.Pros == nil && in.Cons == nil {
		return nil, apperr.Validation("No fields to update")
	}

	if in.Status != nil {
		if !validation.ValidEnum(*in.Status, model.SavedStatuses()) {
			return nil, apperr.Validation("Invalid status")
		}
		saved.Status = *in.Status
	}
	if in.Notes != nil {
		saved.Notes = *in.Notes
	}
	if in.Pros != nil {
		saved.Pros = datatypes.NewJSONSlice(in.Pros)
	}
	if in.Cons != nil {
		saved.Cons = datatypes.NewJSONSlice(in.Cons)
	}

	if err := s.db.Save(saved).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not update saved property", err)
	}

	return s.Get(userID, id)
}

// Delete kaydı kaldırır; tag ilişkileri de gider
func (s *SavedPropertyService) Delete(userID, id uint) error {
	saved, err := verifyOwnership[model.SavedProperty](s.db, id, userID, "saved property")
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("saved_property_id = ?", id).Delete(&model.SavedPropertyTag{}).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not remove tag associations", err)
		}
		if err := tx.Unscoped().Delete(saved).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not delete saved property", err)
		}
		return nil
	})
}

// AttachTag iki tarafın da çağırana ait olmasını ister
func (s *SavedPropertyService) AttachTag(userID, savedID, tagID uint) error {
	if _, err := verifyOwnership[model.SavedProperty](s.db, savedID, userID, "saved property"); err != nil {
		return err
	}
	if _, err := verifyOwnership[model.Tag](s.db, tagID, userID, "tag"); err != nil {
		return err
	}

	assoc := model.SavedPropertyTag{SavedPropertyID: savedID, TagID: tagID}
	if err := s.db.Create(&assoc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Tag is already attached")
		}
		return apperr.Wrap(apperr.KindInternal, "Could not attach tag", err)
	}
	return nil
}

// DetachTag hiç bağlanmamış bir tag'i çözmek not-found döner, sessizce
// başarılı olmaz
func (s *SavedPropertyService) DetachTag(userID, savedID, tagID uint) error {
	if _, err := verifyOwnership[model.SavedProperty](s.db, savedID, userID, "saved property"); err != nil {
		return err
	}
	if _, err := verifyOwnership[model.Tag](s.db, tagID, userID, "tag"); err != nil {
		return err
	}

	res := s.db.Where("saved_property_id = ? AND tag_id = ?", savedID, tagID).Delete(&model.SavedPropertyTag{})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "Could not detach tag", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Tag is not attached to this saved property")
	}
	return nil
}
