package main

import (
	"log"
	"strings"

	"menucost-backend/internal/analytics"
	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/catalog"
	"menucost-backend/internal/config"
	"menucost-backend/internal/database"
	"menucost-backend/internal/mapping"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Post("/users/:id/toggle-status", auth.ToggleUserStatusHandler())
	adminRoutes.Post("/users/:id/reset-password", auth.ResetPasswordHandler())
	adminRoutes.Post("/recompute-costs", catalog.RecomputeAllCostsHandler())

	// Malzeme yönetimi
	protected.Get("/ingredients", catalog.ListIngredientsHandler())
	protected.Get("/ingredients/categories", catalog.ListIngredientCategoriesHandler())
	protected.Post("/ingredients", auth.RequireRole(models.RoleAdmin, models.RoleManager), catalog.CreateIngredientHandler())
	protected.Put("/ingredients/:id", auth.RequireRole(models.RoleAdmin, models.RoleManager), catalog.UpdateIngredientHandler())
	protected.Delete("/ingredients/:id", auth.RequireRole(models.RoleAdmin, models.RoleManager), catalog.DeleteIngredientHandler())

	// Tedarikçi fiyat listesi
	protected.Post("/ingredients/price-list/parse", catalog.ParsePriceListHandler())
	protected.Post("/ingredients/price-list/apply", auth.RequireRole(models.RoleAdmin, models.RoleManager), catalog.ApplyPriceListHandler())

	// Ürün yönetimi
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Post("/products/sandwich", catalog.CreateSandwichHandler())
	protected.Post("/products/menu", catalog.CreateMenuHandler())
	protected.Post("/products/bulk-delete", catalog.BulkDeleteProductsHandler())
	protected.Put("/products/:id", catalog.UpdateProductHandler())
	protected.Delete("/products/:id", catalog.DeleteProductHandler())
	protected.Post("/products/:id/restore", catalog.RestoreProductHandler())
	protected.Post("/products/:id/duplicate", catalog.DuplicateProductHandler())
	protected.Post("/products/:id/recalculate", catalog.RecalculateProductHandler())
	protected.Get("/products/:id/price-comparison", mapping.PriceComparisonHandler())

	// Restoran yönetimi
	protected.Get("/restaurants", mapping.ListRestaurantsHandler())
	protected.Post("/restaurants", auth.RequireRole(models.RoleAdmin, models.RoleManager), mapping.CreateRestaurantHandler())
	protected.Put("/restaurants/:id", auth.RequireRole(models.RoleAdmin, models.RoleManager), mapping.UpdateRestaurantHandler())
	protected.Delete("/restaurants/:id", auth.RequireRole(models.RoleAdmin, models.RoleManager), mapping.DeleteRestaurantHandler())
	protected.Get("/restaurants/:id/listings", mapping.RestaurantListingsHandler())
	protected.Put("/restaurants/:id/listings", auth.RequireRole(models.RoleAdmin, models.RoleManager), mapping.UpsertListingHandler())
	protected.Get("/restaurants/:id/stats", mapping.RestaurantStatsHandler())

	// Dashboard & raporlar
	protected.Get("/dashboard", analytics.DashboardHandler())
	protected.Get("/reports/cost-export", analytics.ExportCostReportHandler())
	protected.Get("/reports/restaurant-export/:id", auth.RequireRole(models.RoleAdmin, models.RoleManager), analytics.ExportRestaurantListingsHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin, models.RoleManager), audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
