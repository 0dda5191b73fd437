package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/query"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
)

func TestSaveListingTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	listing := insertListing(t, db, lister.ID, "Popular Flat", true)

	_, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)

	// İkinci kayıt validation hatası, sessiz no-op değil
	_, err = svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	var count int64
	db.Model(&model.SavedProperty{}).Where("user_id = ?", hunter.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSaveInactiveListingRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	listing := insertListing(t, db, lister.ID, "Gone Flat", false)

	_, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(hunter.ID, service.SaveInput{ListingID: 9999})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSavedPropertyUpdatePartialFields(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	listing := insertListing(t, db, lister.ID, "Tracked Flat", true)

	saved, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)

	// Tanınan alan yoksa çağrı komple reddedilir
	_, err = svc.Update(hunter.ID, saved.ID, service.SavedPropertyUpdate{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	status := model.SavedStatusInterested
	notes := "Viewing booked for Saturday"
	updated, err := svc.Update(hunter.ID, saved.ID, service.SavedPropertyUpdate{
		Status: &status,
		Notes:  &notes,
		Pros:   []string{"big garden", "quiet street"},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.SavedStatusInterested, updated.Status)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, []string{"big garden", "quiet street"}, []string(updated.Pros))
	assert.Empty(t, updated.Cons)

	badStatus := model.SavedStatus("bogus")
	_, err = svc.Update(hunter.ID, saved.ID, service.SavedPropertyUpdate{Status: &badStatus})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSavedPropertyOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	intruder := createTestUser(t, db, "intruder@test.com")
	listing := insertListing(t, db, lister.ID, "Private Flat", true)

	saved, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)

	_, err = svc.Get(intruder.ID, saved.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = svc.Delete(intruder.ID, saved.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestSavedPropertyListFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")

	l1 := insertListing(t, db, lister.ID, "Flat One", true)
	l2 := insertListing(t, db, lister.ID, "Flat Two", true)

	status := model.SavedStatusApplied
	_, err := svc.Create(hunter.ID, service.SaveInput{ListingID: l1.ID, Status: &status})
	assert.NoError(t, err)
	_, err = svc.Create(hunter.ID, service.SaveInput{ListingID: l2.ID})
	assert.NoError(t, err)

	applied, meta, err := svc.List(hunter.ID, &status, query.Pagination{})
	assert.NoError(t, err)
	assert.Len(t, applied, 1)
	assert.Equal(t, l1.ID, applied[0].ListingID)
	assert.Equal(t, int64(1), meta.TotalCount)

	all, meta, err := svc.List(hunter.ID, nil, query.Pagination{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestAttachAndDetachTag(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	tags := service.NewTagService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	listing := insertListing(t, db, lister.ID, "Tagged Flat", true)

	saved, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)
	tag, err := tags.Create(hunter.ID, service.TagInput{Name: "Favorite"})
	assert.NoError(t, err)

	assert.NoError(t, svc.AttachTag(hunter.ID, saved.ID, tag.ID))

	// Tekrar bağlama validation
	err = svc.AttachTag(hunter.ID, saved.ID, tag.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.NoError(t, svc.DetachTag(hunter.ID, saved.ID, tag.ID))

	// Bağlı olmayan tag'i çözmek not-found, sessiz başarı değil
	err = svc.DetachTag(hunter.ID, saved.ID, tag.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAttachTagRequiresBothOwned(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	tags := service.NewTagService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	other := createTestUser(t, db, "other@test.com")
	listing := insertListing(t, db, lister.ID, "Shared Flat", true)

	saved, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)
	foreignTag, err := tags.Create(other.ID, service.TagInput{Name: "Theirs"})
	assert.NoError(t, err)

	err = svc.AttachTag(hunter.ID, saved.ID, foreignTag.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestDeleteSavedPropertyRemovesTagAssociations(t *testing.T) {
	db := setupTestDB(t)
	svc := service.NewSavedPropertyService(db)
	tags := service.NewTagService(db)
	lister := createTestUser(t, db, "lister@test.com")
	hunter := createTestUser(t, db, "hunter@test.com")
	listing := insertListing(t, db, lister.ID, "Ephemeral Flat", true)

	saved, err := svc.Create(hunter.ID, service.SaveInput{ListingID: listing.ID})
	assert.NoError(t, err)
	tag, err := tags.Create(hunter.ID, service.TagInput{Name: "Shortlist"})
	assert.NoError(t, err)
	assert.NoError(t, svc.AttachTag(hunter.ID, saved.ID, tag.ID))

	assert.NoError(t, svc.Delete(hunter.ID, saved.ID))

	var assocCount int64
	db.Model(&model.SavedPropertyTag{}).Count(&assocCount)
	assert.Equal(t, int64(0), assocCount)
}
