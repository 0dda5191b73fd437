package service_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/service"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, model.SetupJoinTables(db))
	assert.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.ListingImage{},
		&model.SavedProperty{},
		&model.SavedPropertyTag{},
		&model.Viewing{},
		&model.Comparison{},
		&model.Tag{},
		&model.CleanupTask{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	user := model.User{Email: email, Name: "Test User", PasswordHash: "x"}
	assert.NoError(t, db.Create(&user).Error)
	return &user
}

// fakeStorage test içi obje deposu; hangi objelerin yüklenip silindiğini
// kaydeder ve istenirse yüklemeleri bozar
type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deleted  []string
	failNext bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return "", fmt.Errorf("upload failed")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := "https://cdn.test/" + key
	f.objects[url] = data
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, objectURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectURL)
	f.deleted = append(f.deleted, objectURL)
	return nil
}

func (f *fakeStorage) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// makeImageFile verilen isimle geçerli bir PNG taşıyan multipart file
// header üretir
func makeImageFile(t *testing.T, name string) *multipart.FileHeader {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("images", name)
	assert.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	assert.NoError(t, png.Encode(fw, img))
	assert.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	assert.NoError(t, err)
	return form.File["images"][0]
}

func makeImageFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	files := make([]*multipart.FileHeader, len(names))
	for i, n := range names {
		files[i] = makeImageFile(t, n)
	}
	return files
}

func newListingService(t *testing.T) (*service.ListingService, *fakeStorage, *gorm.DB) {
	db := setupTestDB(t)
	store := newFakeStorage()
	return service.NewListingService(db, store), store, db
}

func createTestListing(t *testing.T, svc *service.ListingService, userID uint, title string) *model.Listing {
	listing, err := svc.Create(context.Background(), userID, service.ListingInput{
		Title:       title,
		Type:        model.PropertyTypeApartment,
		Price:       250000,
		AddressLine: "12 Main Street",
		City:        "Dublin",
		County:      "Dublin",
		Bedrooms:    2,
		Bathrooms:   1,
	}, makeImageFiles(t, "front.png"))
	assert.NoError(t, err)
	return listing
}

// insertListing servis katmanını atlayarak doğrudan satır yazar; resim
// gerektirmeyen kurulumlar için
func insertListing(t *testing.T, db *gorm.DB, userID uint, title string, active bool, mutate ...func(*model.Listing)) *model.Listing {
	listing := model.Listing{
		UserID:      userID,
		Title:       title,
		Slug:        strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Type:        model.PropertyTypeHouse,
		Price:       300000,
		AddressLine: "1 High Road",
		City:        "Cork",
		County:      "Cork",
		Bedrooms:    3,
		Bathrooms:   2,
		IsActive:    active,
	}
	for _, m := range mutate {
		m(&listing)
	}
	assert.NoError(t, db.Create(&listing).Error)
	return &listing
}
