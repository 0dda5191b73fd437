package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
)

func TestTagNameUniquePerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewTagService(db)
	alice := createTestUser(t, db, "alice@test.com")
	bob := createTestUser(t, db, "bob@test.com")

	_, err := svc.Create(alice.ID, service.TagInput{Name: "garden", Color: "#00AA00"})
	assert.NoError(t, err)

	_, err = svc.Create(alice.ID, service.TagInput{Name: "garden", Color: "#FF0000"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// Farklı kullanıcı aynı ismi serbestçe kullanır
	_, err = svc.Create(bob.ID, service.TagInput{Name: "garden", Color: "#0000FF"})
	assert.NoError(t, err)
}

func TestTagCreateRequiresName(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewTagService(db)
	user := createTestUser(t, db, "user@test.com")

	_, err := svc.Create(user.ID, service.TagInput{Name: "", Color: "#333333"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestTagUpdateRenameCollision(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewTagService(db)
	user := createTestUser(t, db, "user@test.com")

	_, err := svc.Create(user.ID, service.TagInput{Name: "garden", Color: "#00AA00"})
	assert.NoError(t, err)
	second, err := svc.Create(user.ID, service.TagInput{Name: "balcony", Color: "#AA00AA"})
	assert.NoError(t, err)

	taken := "garden"
	_, err = svc.Update(user.ID, second.ID, service.TagUpdate{Name: &taken})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	color := "#111111"
	updated, err := svc.Update(user.ID, second.ID, service.TagUpdate{Color: &color})
	assert.NoError(t, err)
	assert.Equal(t, "balcony", updated.Name)
	assert.Equal(t, color, updated.Color)
}

func TestTagListCountsUsage(t *testing.T) {
	db := setupTestDB(t)
	tagSvc := service.NewTagService(db)
	savedSvc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")

	tag, err := tagSvc.Create(hunter.ID, service.TagInput{Name: "favourite", Color: "#FFD700"})
	assert.NoError(t, err)
	_, err = tagSvc.Create(hunter.ID, service.TagInput{Name: "unused", Color: "#888888"})
	assert.NoError(t, err)

	listing := insertListing(t, db, lister.ID, "Tagged Flat", true)
	saved, err := savedSvc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)
	assert.NoError(t, savedSvc.AttachTag(hunter.ID, saved.ID, tag.ID))

	tags, err := tagSvc.List(hunter.ID)
	assert.NoError(t, err)
	assert.Len(t, tags, 2)

	// İsme göre sıralı: favourite, unused
	assert.Equal(t, "favourite", tags[0].Name)
	assert.Equal(t, int64(1), tags[0].SavedPropertyCount)
	assert.Equal(t, "unused", tags[1].Name)
	assert.Equal(t, int64(0), tags[1].SavedPropertyCount)
}

func TestTagDeleteRemovesAssociations(t *testing.T) {
	db := setupTestDB(t)
	tagSvc := service.NewTagService(db)
	savedSvc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")

	tag, err := tagSvc.Create(hunter.ID, service.TagInput{Name: "shortlist", Color: "#00CED1"})
	assert.NoError(t, err)

	listing := insertListing(t, db, lister.ID, "Soon Untagged", true)
	saved, err := savedSvc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)
	assert.NoError(t, savedSvc.AttachTag(hunter.ID, saved.ID, tag.ID))

	assert.NoError(t, tagSvc.Delete(hunter.ID, tag.ID))

	var assocCount int64
	assert.NoError(t, db.Model(&model.SavedPropertyTag{}).Where("tag_id = ?", tag.ID).Count(&assocCount).Error)
	assert.Equal(t, int64(0), assocCount)

	// Saved property kaydı yerinde kalır
	var stored model.SavedProperty
	assert.NoError(t, db.First(&stored, saved.ID).Error)
}

func TestTagOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewTagService(db)
	alice := createTestUser(t, db, "alice@test.com")
	bob := createTestUser(t, db, "bob@test.com")

	tag, err := svc.Create(alice.ID, service.TagInput{Name: "private", Color: "#000000"})
	assert.NoError(t, err)

	err = svc.Delete(bob.ID, tag.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
