package service

import (
	"errors"

	"gorm.io/gorm"

	"homesaver_backend/pkg/apperr"
)

// verifyOwnership entity'yi id ile yükler ve sahibinin istekte bulunan
// kullanıcı olduğunu doğrular. Yan etkisi yoktur; her yazan operasyon
// yazmadan önce bunu çağırır.
func verifyOwnership[T any, PT interface {
	*T
	OwnerID() uint
}](db *gorm.DB, id uint, userID uint, name string) (PT, error) {
	var entity T
	if err := db.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(name + " not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "could not fetch "+name, err)
	}

	p := PT(&entity)
	if p.OwnerID() != userID {
		return nil, apperr.Forbidden("You don't have permission to access this " + name)
	}

	return p, nil
}
