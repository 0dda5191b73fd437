package service

import (
	"errors"

	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/apperr"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TagUpdate struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// TagWithCount listelemede tag başına saved property sayısını taşır
type TagWithCount struct {
	model.Tag
	SavedPropertyCount int64 `json:"saved_property_count"`
}

// Create isim (user, name) içinde benzersizdir; farklı kullanıcılar aynı
// ismi bağımsız kullanabilir
func (s *TagService) Create(userID uint, in TagInput) (*model.Tag, error) {
	if in.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	tag := model.Tag{
		UserID: userID,
		Name:   in.Name,
		Color:  in.Color,
	}
	if err := s.db.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("You already have a tag with this name")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not create tag", err)
	}
	return &tag, nil
}

func (s *TagService) List(userID uint) ([]TagWithCount, error) {
	var tags []model.Tag
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Could not fetch tags", err)
	}

	results := make([]TagWithCount, len(tags))
	for i, t := range tags {
		var count int64
		if err := s.db.Model(&model.SavedPropertyTag{}).Where("tag_id = ?", t.ID).Count(&count).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "Could not count tag usage", err)
		}
		results[i] = TagWithCount{Tag: t, SavedPropertyCount: count}
	}
	return results, nil
}

func (s *TagService) Update(userID, id uint, in TagUpdate) (*model.Tag, error) {
	tag, err := verifyOwnership[model.Tag](s.db, id, userID, "tag")
	if err != nil {
		return nil, err
	}

	if in.Name == nil && in.Color == nil {
		return nil, apperr.Validation("No fields to update")
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		tag.Name = *in.Name
	}
	if in.Color != nil {
		tag.Color = *in.Color
	}

	if err := s.db.Save(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("You already have a tag with this name")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "Could not update tag", err)
	}
	return tag, nil
}

// Delete tag'i ve tüm ilişkilerini kaldırır
func (s *TagService) Delete(userID, id uint) error {
	tag, err := verifyOwnership[model.Tag](s.db, id, userID, "tag")
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.SavedPropertyTag{}).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not remove tag associations", err)
		}
		if err := tx.Unscoped().Delete(tag).Error; err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not delete tag", err)
		}
		return nil
	})
}
