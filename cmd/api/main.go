package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"homesaver_backend/internal/controller"
	"homesaver_backend/internal/middleware"
	"homesaver_backend/internal/model"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/config"
	"homesaver_backend/pkg/cron"
	"homesaver_backend/pkg/database"
	"homesaver_backend/pkg/utils/jwt"
	"homesaver_backend/pkg/utils/storage"
)

type controllers struct {
	auth        *controller.AuthController
	listings    *controller.ListingController
	saved       *controller.SavedPropertyController
	viewings    *controller.ViewingController
	comparisons *controller.ComparisonController
	tags        *controller.TagController
	dashboard   *controller.DashboardController
}

func setupRoutes(app *fiber.App, db *gorm.DB, ctrl controllers) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", ctrl.auth.Register)
	auth.Post("/login", ctrl.auth.Login)
	auth.Post("/logout", middleware.AuthMiddleware(), ctrl.auth.Logout)

	// Public listing search; kimlik varsa already_saved işaretlenir
	api.Get("/listings", middleware.OptionalAuth(), ctrl.listings.Search)

	// "/my" parametreli detay rotasından önce kayıt edilmeli, yoksa :id olarak
	// eşleşir. Detay public kalır; pasif ilanlar da id ile adreslenebilir.
	api.Get("/listings/my", middleware.AuthMiddleware(), ctrl.listings.ListMine)
	api.Get("/listings/:id", ctrl.listings.Get)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", ctrl.auth.GetMe)

	// Listing Routes
	listings := protected.Group("/listings")
	listings.Post("/", ctrl.listings.Create)
	listings.Put("/:id", ctrl.listings.Update)
	listings.Delete("/:id", ctrl.listings.Delete)
	listings.Post("/:id/images", middleware.CheckListingOwnership(db), ctrl.listings.AddImages)
	listings.Delete("/:id/images/:image_id", middleware.CheckListingOwnership(db), ctrl.listings.RemoveImage)
	listings.Put("/:id/images/reorder", middleware.CheckListingOwnership(db), ctrl.listings.ReorderImages)

	// Saved Property Routes
	saved := protected.Group("/saved-properties")
	saved.Post("/", ctrl.saved.Create)
	saved.Get("/", ctrl.saved.List)
	saved.Get("/:id", ctrl.saved.Get)
	saved.Put("/:id", ctrl.saved.Update)
	saved.Delete("/:id", ctrl.saved.Delete)
	saved.Post("/:id/tags/:tag_id", ctrl.saved.AttachTag)
	saved.Delete("/:id/tags/:tag_id", ctrl.saved.DetachTag)

	// Viewing Routes
	viewings := protected.Group("/viewings")
	viewings.Post("/", ctrl.viewings.Create)
	viewings.Get("/", ctrl.viewings.List)
	viewings.Get("/upcoming", ctrl.viewings.Upcoming)
	viewings.Put("/:id", ctrl.viewings.Update)
	viewings.Delete("/:id", ctrl.viewings.Delete)

	// Comparison Routes
	comparisons := protected.Group("/comparisons")
	comparisons.Post("/", ctrl.comparisons.Create)
	comparisons.Get("/", ctrl.comparisons.List)
	comparisons.Get("/:id", ctrl.comparisons.Get)
	comparisons.Put("/:id", ctrl.comparisons.Update)
	comparisons.Delete("/:id", ctrl.comparisons.Delete)

	// Tag Routes
	tags := protected.Group("/tags")
	tags.Post("/", ctrl.tags.Create)
	tags.Get("/", ctrl.tags.List)
	tags.Put("/:id", ctrl.tags.Update)
	tags.Delete("/:id", ctrl.tags.Delete)

	// Dashboard
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", ctrl.dashboard.GetStats)
}

func main() {
	cfg := config.Load()
	jwt.SetSecret(cfg.JWT.Secret)

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := model.SetupJoinTables(db); err != nil {
		log.Fatal("Could not setup join tables:", err)
	}

	err = database.Migrate(db,
		&model.User{},
		&model.Listing{},
		&model.ListingImage{},
		&model.SavedProperty{},
		&model.SavedPropertyTag{},
		&model.Viewing{},
		&model.Comparison{},
		&model.Tag{},
		&model.CleanupTask{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	store, err := storage.NewS3Storage(cfg.Storage)
	if err != nil {
		log.Fatal("Could not initialize object storage:", err)
	}

	cron.InitCleanupCron(db, store)

	ctrl := controllers{
		auth:        controller.NewAuthController(service.NewAuthService(db)),
		listings:    controller.NewListingController(service.NewListingService(db, store)),
		saved:       controller.NewSavedPropertyController(service.NewSavedPropertyService(db)),
		viewings:    controller.NewViewingController(service.NewViewingService(db)),
		comparisons: controller.NewComparisonController(service.NewComparisonService(db)),
		tags:        controller.NewTagController(service.NewTagService(db)),
		dashboard:   controller.NewDashboardController(service.NewDashboardService(db)),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app, db, ctrl)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
