package controller

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/query"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type ListingController struct {
	listings *service.ListingService
}

func NewListingController(listings *service.ListingService) *ListingController {
	return &ListingController{listings: listings}
}

func paginated(c *fiber.Ctx, data interface{}, meta query.PageMeta) error {
	return c.JSON(fiber.Map{
		"data":       data,
		"page":       meta.Page,
		"limit":      meta.Limit,
		"totalCount": meta.TotalCount,
		"totalPages": meta.TotalPages,
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, apperr.Validation("Invalid " + name)
	}
	return uint(id), nil
}

func parsePagination(c *fiber.Ctx) query.Pagination {
	return query.Pagination{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 0),
	}
}

func parseListingFilter(c *fiber.Ctx) query.ListingFilter {
	f := query.ListingFilter{
		City:   c.Query("city"),
		County: c.Query("county"),
		Sort:   c.Query("sort"),
	}

	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	// Düz "bedrooms" değeri minimum sayılır, exact match değil
	for _, key := range []string{"min_bedrooms", "bedrooms"} {
		if v := c.Query(key); v != "" && f.MinBedrooms == nil {
			if n, err := strconv.Atoi(v); err == nil {
				f.MinBedrooms = &n
			}
		}
	}
	for _, key := range []string{"min_bathrooms", "bathrooms"} {
		if v := c.Query(key); v != "" && f.MinBathrooms == nil {
			if n, err := strconv.Atoi(v); err == nil {
				f.MinBathrooms = &n
			}
		}
	}
	if v := c.Query("types"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Types = append(f.Types, model.PropertyType(t))
			}
		}
	}

	return f
}

func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// Create multipart ile ilan oluşturur; "images" alanında en az bir dosya
func (lc *ListingController) Create(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(service.ListingInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	listing, err := lc.listings.Create(c.Context(), claims.UserID, *input, formFiles(c, "images"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// Search public arama; kimlik varsa already_saved işaretlenir
func (lc *ListingController) Search(c *fiber.Ctx) error {
	var requesterID *uint
	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		requesterID = &claims.UserID
	}

	results, meta, err := lc.listings.Search(requesterID, parseListingFilter(c), parsePagination(c))
	if err != nil {
		return err
	}

	return paginated(c, results, meta)
}

// ListMine kullanıcının kendi ilanları
func (lc *ListingController) ListMine(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	activeOnly := c.QueryBool("active", false)

	listings, meta, err := lc.listings.ListMine(claims.UserID, activeOnly, parseListingFilter(c), parsePagination(c))
	if err != nil {
		return err
	}

	return paginated(c, listings, meta)
}

func (lc *ListingController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	listing, err := lc.listings.Get(id)
	if err != nil {
		return err
	}

	return c.JSON(listing)
}

// Update alanları ve resim setini günceller. multipart: form alanları +
// "retained_images" (tutulacak URL'ler) + "images" (yeni dosyalar)
func (lc *ListingController) Update(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(service.ListingInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	var retained []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		retained = form.Value["retained_images"]
	}

	listing, err := lc.listings.Update(c.Context(), claims.UserID, id, *input, retained, formFiles(c, "images"))
	if err != nil {
		return err
	}

	return c.JSON(listing)
}

// Delete soft delete: ilan pasife çekilir
func (lc *ListingController) Delete(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := lc.listings.SoftDelete(claims.UserID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (lc *ListingController) AddImages(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	listing, err := lc.listings.AddImages(c.Context(), claims.UserID, id, formFiles(c, "images"))
	if err != nil {
		return err
	}

	return c.JSON(listing)
}

func (lc *ListingController) RemoveImage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := paramID(c, "image_id")
	if err != nil {
		return err
	}

	listing, err := lc.listings.RemoveImage(claims.UserID, id, imageID)
	if err != nil {
		return err
	}

	return c.JSON(listing)
}

type reorderInput struct {
	ImageIDs []uint `json:"image_ids"`
}

func (lc *ListingController) ReorderImages(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(reorderInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	listing, err := lc.listings.ReorderImages(claims.UserID, id, input.ImageIDs)
	if err != nil {
		return err
	}

	return c.JSON(listing)
}
