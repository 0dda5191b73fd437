package service

import (
	"context"
	"mime/multipart"

	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/query"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/config"
	"homesaver_backend/pkg/utils/storage"
	"homesaver_backend/pkg/utils/validation"
)

type ListingService struct {
	db         *gorm.DB
	reconciler *ImageReconciler
}

func NewListingService(db *gorm.DB, store storage.ObjectStorage) *ListingService {
	return &ListingService{
		db:         db,
		reconciler: NewImageReconciler(db, store),
	}
}

type ListingInput struct {
	Title       string             `json:"title" form:"title"`
	Type        model.PropertyType `json:"type" form:"type"`
	Price       float64            `json:"price" form:"price"`
	Description string             `json:"description" form:"description"`

	AddressLine string `json:"address_line" form:"address_line"`
	City        string `json:"city" form:"city"`
	County      string `json:"county" form:"county"`
	Eircode     string `json:"eircode" form:"eircode"`

	Bedrooms    int      `json:"bedrooms" form:"bedrooms"`
	Bathrooms   int      `json:"bathrooms" form:"bathrooms"`
	FloorAreaM2 *float64 `json:"floor_area_m2" form:"floor_area_m2"`
}

// ListingResult arama sonucu satırı; already_saved tek toplu sorguyla
// hesaplanır, satır başına değil.
type ListingResult struct {
	model.Listing
	AlreadySaved bool `json:"already_saved"`
}

func validateListingInput(in *ListingInput) error {
	switch {
	case in.Title == "":
		return apperr.Validation("Title is required")
	case in.AddressLine == "" || in.City == "" || in.County == "":
		return apperr.Validation("Address, city and county are required")
	case in.Price <= 0:
		return apperr.Validation("Price must be greater than zero")
	case in.Bedrooms < 0 || in.Bathrooms < 0:
		return apperr.Validation("Bedrooms and bathrooms cannot be negative")
	}
	if !validation.ValidEnum(in.Type, model.PropertyTypes()) {
		return apperr.Validation("Invalid property type")
	}
	if in.FloorAreaM2 != nil && *in.FloorAreaM2 <= 0 {
		return apperr.Validation("Floor area must be greater than zero")
	}
	return nil
}

func validateImageFiles(files []*multipart.FileHeader) error {
	for _, f := range files {
		if err := validation.ValidateImage(f); err != nil {
			return apperr.Validation(err.Error())
		}
	}
	return nil
}

// Create yeni ilan oluşturur. En az bir resim zorunludur. Satır oluştuktan
// sonraki herhangi bir adım başarısız olursa yüklenen objeler ve satırın
// kendisi geri silinir, sıfır resimli öksüz kayıt kalmaz.
func (s *ListingService) Create(ctx context.Context, userID uint, in ListingInput, files []*multipart.FileHeader) (*model.Listing, error) {
	if err := validateListingInput(&in); err != nil {
		return nil, err
	}
	if len(files) < 1 {
		return nil, apperr.Validation("At least one image is required")
	}
	if len(files) > config.MaxListingImages {
		return nil, apperr.Validation("Maximum image limit exceeded")
	}
	if err := validateImageFiles(files); err != nil {
		return nil, err
	}

	listing := model.Listing{
		UserID:      userID,
		Title:       in.Title,
		Type:        in.Type,
		Price:       in.Price,
		Description: in.Description,
		AddressLine: in.AddressLine,
		City:        in.City,
		County:      in.County,
		Eircode:     in.Eircode,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		FloorAreaM2: in.FloorAreaM2,
		IsActive:    true,
	}

	if err := s.db.Create(&listing).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not create listing", err)
	}

	urls, err := s.reconciler.UploadAll(ctx, listing.Slug, files)
	if err != nil {
		s.db.Unscoped().Delete(&listing)
		return nil, err
	}

	if err := s.replaceImageRows(&listing, urls); err != nil {
		s.reconciler.RollbackUploads(ctx, urls)
		s.db.Unscoped().Delete(&listing)
		return nil, err
	}

	return s.Get(listing.ID)
}

// replaceImageRows referans listesini verilen sırayla yeniden yazar
func (s *ListingService) replaceImageRows(listing *model.Listing, urls []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("listing_id = ?", listing.ID).Delete(&model.ListingImage{}).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not update images", err)
		}
		for i, u := range urls {
			img := model.ListingImage{
				ListingID: listing.ID,
				URL:       u,
				Position:  i,
				IsCover:   i == 0,
			}
			if err := tx.Create(&img).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, "Could not save images", err)
			}
		}
		return nil
	})
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("listing_images.position ASC")
	})
}

// Get ilanı id ile döner. Pasif ilanlar da adreslenebilir kalır; görünürlük
// filtresi sadece listelerde uygulanır.
func (s *ListingService) Get(id uint) (*model.Listing, error) {
	var listing model.Listing
	err := preloadImages(s.db).First(&listing, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Listing not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch listing", err)
	}
	return &listing, nil
}

// Search public arama: sadece aktif ilanlar, filtre + sıralama + sayfalama.
// İstek sahibi belliyse her sonuç already_saved ile işaretlenir.
func (s *ListingService) Search(requesterID *uint, f query.ListingFilter, p query.Pagination) ([]ListingResult, query.PageMeta, error) {
	p.Normalize(20)
	f.Substring = true

	scope := func(db *gorm.DB) *gorm.DB {
		return f.Apply(preloadImages(db).Where("is_active = ?", true))
	}

	var listings []model.Listing
	meta, err := query.FindPage(s.db, scope, query.OrderClause(f.Sort), p, &listings)
	if err != nil {
		return nil, query.PageMeta{}, apperr.Wrap(apperr.KindInternal, "Could not fetch listings", err)
	}

	results := make([]ListingResult, len(listings))
	for i, l := range listings {
		results[i] = ListingResult{Listing: l}
	}

	// Sayfadaki tüm ilanlar için tek existence sorgusu, N+1 yok
	if requesterID != nil && len(listings) > 0 {
		ids := make([]uint, len(listings))
		for i, l := range listings {
			ids[i] = l.ID
		}

		var savedIDs []uint
		err := s.db.Model(&model.SavedProperty{}).
			Where("user_id = ? AND listing_id IN ?", *requesterID, ids).
			Pluck("listing_id", &savedIDs).Error
		if err != nil {
			return nil, query.PageMeta{}, apperr.Wrap(apperr.KindInternal, "Could not fetch saved state", err)
		}

		saved := make(map[uint]bool, len(savedIDs))
		for _, id := range savedIDs {
			saved[id] = true
		}
		for i := range results {
			results[i].AlreadySaved = saved[results[i].ID]
		}
	}

	return results, meta, nil
}

// ListMine kullanıcının kendi ilanları; exact şehir eşleşmesi, opsiyonel
// aktiflik filtresi
func (s *ListingService) ListMine(userID uint, activeOnly bool, f query.ListingFilter, p query.Pagination) ([]model.Listing, query.PageMeta, error) {
	p.Normalize(10)
	f.Substring = false

	scope := func(db *gorm.DB) *gorm.DB {
		db = preloadImages(db).Where("user_id = ?", userID)
		if activeOnly {
			db = db.Where("is_active = ?", true)
		}
		return f.Apply(db)
	}

	var listings []model.Listing
	meta, err := query.FindPage(s.db, scope, query.OrderClause(f.Sort), p, &listings)
	if err != nil {
		return nil, query.PageMeta{}, apperr.Wrap(apperr.KindInternal, "Could not fetch listings", err)
	}
	return listings, meta, nil
}

// Update ilan alanlarını günceller ve resim setini uzlaştırır: retained
// mevcut setin alt kümesi olmalı, yeni dosyalar yüklenir, çıkarılanlar
// cleanup kuyruğuna girer.
func (s *ListingService) Update(ctx context.Context, userID, id uint, in ListingInput, retained []string, files []*multipart.FileHeader) (*model.Listing, error) {
	listing, err := verifyOwnership[model.Listing](s.db, id, userID, "listing")
	if err != nil {
		return nil, err
	}
	if err := validateListingInput(&in); err != nil {
		return nil, err
	}
	if err := validateImageFiles(files); err != nil {
		return nil, err
	}

	current, err := s.imageURLs(id)
	if err != nil {
		return nil, err
	}

	currentSet := make(map[string]bool, len(current))
	for _, u := range current {
		currentSet[u] = true
	}
	for _, u := range retained {
		if !currentSet[u] {
			return nil, apperr.Validation("Retained image is not part of this listing")
		}
	}

	if len(retained)+len(files) < 1 {
		return nil, apperr.Validation("At least one image is required")
	}
	if len(retained)+len(files) > config.MaxListingImages {
		return nil, apperr.Validation("Maximum image limit exceeded")
	}

	uploaded, err := s.reconciler.UploadAll(ctx, listing.Slug, files)
	if err != nil {
		return nil, err
	}

	final := append(append([]string{}, retained...), uploaded...)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		listing.Title = in.Title
		listing.Type = in.Type
		listing.Price = in.Price
		listing.Description = in.Description
		listing.AddressLine = in.AddressLine
		listing.City = in.City
		listing.County = in.County
		listing.Eircode = in.Eircode
		listing.Bedrooms = in.Bedrooms
		listing.Bathrooms = in.Bathrooms
		listing.FloorAreaM2 = in.FloorAreaM2

		if err := tx.Save(listing).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not update listing", err)
		}

		if err := tx.Unscoped().Where("listing_id = ?", listing.ID).Delete(&model.ListingImage{}).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not update images", err)
		}
		for i, u := range final {
			img := model.ListingImage{
				ListingID: listing.ID,
				URL:       u,
				Position:  i,
				IsCover:   i == 0,
			}
			if err := tx.Create(&img).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, "Could not save images", err)
			}
		}
		return nil
	})
	if err != nil {
		// DB commit edilmedi; bu çağrıda yüklenenler geri silinir
		s.reconciler.RollbackUploads(ctx, uploaded)
		return nil, err
	}

	// Otorite artık yeni referans listesi; eski objeler best-effort temizlenir
	s.reconciler.EnqueueCleanup(Diff(current, retained))

	return s.Get(listing.ID)
}

// SoftDelete ilanı pasife çeker. Satır hiçbir zaman fiziksel silinmez;
// saved property ve viewing geçmişi ilana erişmeye devam eder.
func (s *ListingService) SoftDelete(userID, id uint) error {
	listing, err := verifyOwnership[model.Listing](s.db, id, userID, "listing")
	if err != nil {
		return err
	}

	if err := s.db.Model(listing).Update("is_active", false).Error; err != nil {
		return apperr.Wrap(apperr.KindInternal, "Could not delete listing", err)
	}
	return nil
}

// AddImages mevcut sıranın sonuna yeni resimler ekler
func (s *ListingService) AddImages(ctx context.Context, userID, id uint, files []*multipart.FileHeader) (*model.Listing, error) {
	listing, err := verifyOwnership[model.Listing](s.db, id, userID, "listing")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperr.Validation("No image provided")
	}
	if err := validateImageFiles(files); err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&model.ListingImage{}).Where("listing_id = ?", id).Count(&count)
	if int(count)+len(files) > config.MaxListingImages {
		return nil, apperr.Validation("Maximum image limit exceeded")
	}

	uploaded, err := s.reconciler.UploadAll(ctx, listing.Slug, files)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, u := range uploaded {
			img := model.ListingImage{
				ListingID: id,
				URL:       u,
				Position:  int(count) + i,
				IsCover:   count == 0 && i == 0,
			}
			if err := tx.Create(&img).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, "Could not save images", err)
			}
		}
		return nil
	})
	if err != nil {
		s.reconciler.RollbackUploads(ctx, uploaded)
		return nil, err
	}

	return s.Get(id)
}

// RemoveImage tek bir referansı kaldırır; remote obje cleanup kuyruğuna
// girer, pozisyonlar sıkıştırılır
func (s *ListingService) RemoveImage(userID, listingID, imageID uint) (*model.Listing, error) {
	if _, err := verifyOwnership[model.Listing](s.db, listingID, userID, "listing"); err != nil {
		return nil, err
	}

	var img model.ListingImage
	if err := s.db.Where("id = ? AND listing_id = ?", imageID, listingID).First(&img).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Image not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch image", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&img).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not delete image", err)
		}

		var rest []model.ListingImage
		if err := tx.Where("listing_id = ?", listingID).Order("position ASC").Find(&rest).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not fetch images", err)
		}
		for i := range rest {
			rest[i].Position = i
			rest[i].IsCover = i == 0
			if err := tx.Save(&rest[i]).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, "Could not update images", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.reconciler.EnqueueCleanup([]string{img.URL})

	return s.Get(listingID)
}

// ReorderImages mevcut referans setinin tam bir permütasyonunu kabul eder.
// Eksik, fazla veya yabancı referans içeren istek reddedilir; sıra değişmez.
// Yeniden sıralama hiçbir zaman resim eklemez veya çıkarmaz.
func (s *ListingService) ReorderImages(userID, listingID uint, orderedIDs []uint) (*model.Listing, error) {
	if _, err := verifyOwnership[model.Listing](s.db, listingID, userID, "listing"); err != nil {
		return nil, err
	}

	var current []model.ListingImage
	if err := s.db.Where("listing_id = ?", listingID).Find(&current).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch images", err)
	}

	if len(orderedIDs) != len(current) {
		return nil, apperr.Validation("Reorder must include every image exactly once")
	}

	byID := make(map[uint]*model.ListingImage, len(current))
	for i := range current {
		byID[current[i].ID] = &current[i]
	}
	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if byID[id] == nil || seen[id] {
			return nil, apperr.Validation("Reorder must include every image exactly once")
		}
		seen[id] = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			img := byID[id]
			img.Position = i
			img.IsCover = i == 0
			if err := tx.Save(img).Error; err != nil {
				return apperr.Wrap(apperr.KindInternal, "Could not reorder images", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(listingID)
}

func (s *ListingService) imageURLs(listingID uint) ([]string, error) {
	var urls []string
	err := s.db.Model(&model.ListingImage{}).
		Where("listing_id = ?", listingID).
		Order("position ASC").
		Pluck("url", &urls).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch images", err)
	}
	return urls, nil
}
