package service

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/query"
	"homesaver_backend/pkg/apperr"
)

type ComparisonService struct {
	db *gorm.DB
}

func NewComparisonService(db *gorm.DB) *ComparisonService {
	return &ComparisonService{db: db}
}

type ComparisonInput struct {
	Name       string `json:"name"`
	ListingIDs []uint `json:"listing_ids"`
}

type ComparisonUpdate struct {
	Name       *string `json:"name"`
	ListingIDs []uint  `json:"listing_ids"`
}

// ComparisonEntry detay görünümünde saklanan sırayla çözülen üye.
// price_per_sqm okuma anında hesaplanır, alan yoksa omit edilir.
type ComparisonEntry struct {
	model.Listing
	PricePerSqm *float64 `json:"price_per_sqm,omitempty"`
}

type ComparisonDetail struct {
	model.Comparison
	Listings []ComparisonEntry `json:"listings"`
}

// validateMembership üyelik listesini doğrular: en az iki ilan, hepsi var
// ve doğrulama anında aktif. Tekrarlayan id de reddedilir.
func (s *ComparisonService) validateMembership(ids []uint) error {
	if len(ids) < model.MinComparisonListings {
		return apperr.Validation("A comparison needs at least two listings")
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperr.Validation("Duplicate listing in comparison")
		}
		seen[id] = true
	}

	var count int64
	err := s.db.Model(&model.Listing{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Count(&count).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "Could not validate listings", err)
	}
	if count != int64(len(ids)) {
		return apperr.Validation("All listings must exist and be active")
	}
	return nil
}

func (s *ComparisonService) Create(userID uint, in ComparisonInput) (*model.Comparison, error) {
	if in.Name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if err := s.validateMembership(in.ListingIDs); err != nil {
		return nil, err
	}

	comparison := model.Comparison{
		UserID:     userID,
		Name:       in.Name,
		ListingIDs: datatypes.NewJSONSlice(in.ListingIDs),
	}
	if err := s.db.Create(&comparison).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not create comparison", err)
	}
	return &comparison, nil
}

func (s *ComparisonService) List(userID uint, p query.Pagination) ([]model.Comparison, query.PageMeta, error) {
	p.Normalize(10)

	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}

	var comparisons []model.Comparison
	meta, err := query.FindPage(s.db, scope, "created_at DESC", p, &comparisons)
	if err != nil {
		return nil, query.PageMeta{}, apperr.Wrap(apperr.KindInternal, "Could not fetch comparisons", err)
	}
	return comparisons, meta, nil
}

// Get üyeleri saklanan sırayla çözer. Sonradan pasife çekilmiş üyeler
// listeden çıkarılmaz; sadece güncellemede tekrar doğrulanır.
func (s *ComparisonService) Get(userID, id uint) (*ComparisonDetail, error) {
	comparison, err := verifyOwnership[model.Comparison](s.db, id, userID, "comparison")
	if err != nil {
		return nil, err
	}

	var listings []model.Listing
	if len(comparison.ListingIDs) > 0 {
		err = s.db.
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("listing_images.position ASC")
			}).
			Where("id IN ?", []uint(comparison.ListingIDs)).
			Find(&listings).Error
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch listings", err)
		}
	}

	byID := make(map[uint]*model.Listing, len(listings))
	for i := range listings {
		byID[listings[i].ID] = &listings[i]
	}

	entries := make([]ComparisonEntry, 0, len(comparison.ListingIDs))
	for _, lid := range comparison.ListingIDs {
		l := byID[lid]
		if l == nil {
			continue
		}
		entries = append(entries, ComparisonEntry{
			Listing:     *l,
			PricePerSqm: l.PricePerSqm(),
		})
	}

	return &ComparisonDetail{Comparison: *comparison, Listings: entries}, nil
}

// Update isim ve/veya üyelik değiştirir. Üyelik listesine dokunan her
// güncelleme baştan doğrulanır; başarısız doğrulama saklanan üyeliği
// değiştirmez.
func (s *ComparisonService) Update(userID, id uint, in ComparisonUpdate) (*model.Comparison, error) {
	comparison, err := verifyOwnership[model.Comparison](s.db, id, userID, "comparison")
	if err != nil {
		return nil, err
	}

	if in.Name == nil && in.ListingIDs == nil {
		return nil, apperr.Validation("No fields to update")
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		comparison.Name = *in.Name
	}
	if in.ListingIDs != nil {
		if err := s.validateMembership(in.ListingIDs); err != nil {
			return nil, err
		}
		comparison.ListingIDs = datatypes.NewJSONSlice(in.ListingIDs)
	}

	if err := s.db.Save(comparison).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not update comparison", err)
	}
	return comparison, nil
}

func (s *ComparisonService) Delete(userID, id uint) error {
	comparison, err := verifyOwnership[model.Comparison](s.db, id, userID, "comparison")
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(comparison).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "Could not delete comparison", err)
	}
	return nil
}
