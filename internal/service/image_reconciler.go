package service

import (
	"bytes"
	"context"
	"log"
	"mime/multipart"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/image"
	"homesaver_backend/pkg/utils/storage"
)

// ImageReconciler ilan resimlerinin remote yaşam döngüsünü yönetir: yeni
// dosyaları yükler, artık referans edilmeyen objeleri cleanup kuyruğuna
// yazar. Otorite her zaman veritabanındaki referans listesidir.
type ImageReconciler struct {
	db    *gorm.DB
	store storage.ObjectStorage
}

func NewImageReconciler(db *gorm.DB, store storage.ObjectStorage) *ImageReconciler {
	return &ImageReconciler{db: db, store: store}
}

// UploadAll dosyaları aynı anda yükler ve hepsini birlikte bekler. Çıktı
// sırası girdi sırasıdır. Herhangi biri başarısız olursa bu çağrıda yüklenen
// diğer objeler geri silinir ve tetikleyen hata döner.
func (r *ImageReconciler) UploadAll(ctx context.Context, listingSlug string, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			buf, contentType, err := image.ProcessImage(f)
			if err != nil {
				return apperr.Wrap(apperr.KindValidation, "could not process image", err)
			}

			key := storage.ObjectKey(listingSlug, f.Filename)
			url, err := r.store.Upload(gctx, key, bytes.NewReader(buf.Bytes()), contentType)
			if err != nil {
				return apperr.Upstream("could not upload image", err)
			}

			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.RollbackUploads(ctx, urls)
		return nil, err
	}

	return urls, nil
}

// RollbackUploads create yolunda yarım kalan yüklemeleri geri siler
func (r *ImageReconciler) RollbackUploads(ctx context.Context, urls []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := r.store.Delete(ctx, u); err != nil {
			log.Printf("rollback: could not delete uploaded object %s: %v", u, err)
		}
	}
}

// Diff toDelete = current − retained (referans kimliğine göre küme farkı)
func Diff(current, retained []string) []string {
	keep := make(map[string]bool, len(retained))
	for _, u := range retained {
		keep[u] = true
	}

	var toDelete []string
	for _, u := range current {
		if !keep[u] {
			toDelete = append(toDelete, u)
		}
	}
	return toDelete
}

// EnqueueCleanup artık referans edilmeyen remote objeleri retry kuyruğuna
// yazar. Kayıt zaten kuyruktaysa no-op; kuyruğa yazılamazsa loglanır, istek
// bloklanmaz.
func (r *ImageReconciler) EnqueueCleanup(urls []string) {
	for _, u := range urls {
		task := model.CleanupTask{ObjectURL: u}
		err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&task).Error
		if err != nil {
			log.Printf("cleanup: could not enqueue %s: %v", u, err)
		}
	}
}
