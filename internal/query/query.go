package query

import (
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
)

// Sort keys
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

type Pagination struct {
	Page  int
	Limit int
}

// Normalize geçersiz değerleri defaultlara çeker
func (p *Pagination) Normalize(defaultLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta toplam sayıdan sayfa metadatasını hesaplar. Boş sonuç kümesi
// de 1. sayfanın 1/1'i olarak raporlanır.
func NewPageMeta(total int64, page, limit int) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// ListingFilter public arama ve "ilanlarım" listesi için predicate seti
type ListingFilter struct {
	City         string
	County       string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MinBathrooms *int
	Types        []model.PropertyType
	Sort         string

	// Şehir/county eşleşmesi çağrı yerine göre substring ya da exact olur:
	// public arama substring, owner listesi exact kullanır
	Substring bool
}

// Apply filtreyi sorguya işler. Yatak odası değeri minimum olarak uygulanır:
// "2 yatak odası" arayan birine 3 odalı ilanlar da gösterilir.
func (f ListingFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.City != "" {
		if f.Substring {
			db = db.Where("LOWER(city) LIKE LOWER(?)", "%"+f.City+"%")
		} else {
			db = db.Where("LOWER(city) = LOWER(?)", f.City)
		}
	}
	if f.County != "" {
		if f.Substring {
			db = db.Where("LOWER(county) LIKE LOWER(?)", "%"+f.County+"%")
		} else {
			db = db.Where("LOWER(county) = LOWER(?)", f.County)
		}
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		db = db.Where("bedrooms >= ?", *f.MinBedrooms)
	}
	if f.MinBathrooms != nil {
		db = db.Where("bathrooms >= ?", *f.MinBathrooms)
	}
	if len(f.Types) > 0 {
		db = db.Where("type IN ?", f.Types)
	}
	return db
}

// OrderClause sıralama anahtarını SQL'e çevirir; tanınmayan anahtar newest
// sayılır
func OrderClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC"
	case SortPriceDesc:
		return "price DESC"
	case SortOldest:
		return "created_at ASC"
	case SortNewest:
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}

// FindPage count + fetch'i aynı predicate üzerinden tek transaction içinde
// çalıştırır, iki okuma arasında skew olmaz.
func FindPage[T any](db *gorm.DB, scope func(*gorm.DB) *gorm.DB, order string, p Pagination, out *[]T) (PageMeta, error) {
	var total int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var m T
		if err := scope(tx.Model(&m)).Count(&total).Error; err != nil {
			return err
		}
		return scope(tx).
			Order(order).
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(out).Error
	})
	if err != nil {
		return PageMeta{}, err
	}
	return NewPageMeta(total, p.Page, p.Limit), nil
}
