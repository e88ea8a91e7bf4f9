package catalog

import (
	"fmt"
	"log"

	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/costing"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/products/:id/recalculate
// Tek ürünün maliyetini saklı malzeme fiyatlarından yeniden hesaplar.
// Ürün sandviçse ve maliyeti değiştiyse bağımlı menüler de tazelenir.
func RecalculateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if !auth.IsManager(c) && product.CreatedBy != auth.CurrentUserID(c) {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürünü güncelleme yetkiniz yok")
		}
		oldCost := product.TotalCost

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		engine := costing.NewEngine(costing.NewRepository(tx))
		if _, err := engine.RecalculateCost(&product); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := tx.Model(&product).Updates(map[string]interface{}{
			"total_cost":           product.TotalCost,
			"gross_profit":         product.GrossProfit,
			"gross_profit_percent": product.GrossProfitPercent,
		}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet kaydedilemedi")
		}

		var menuChanges []costing.CostChange
		if product.ProductType == models.ProductTypeSandwich {
			var err error
			if menuChanges, err = engine.RefreshDependentMenus(&product); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Bağımlı menüler güncellenemedi")
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return c.JSON(fiber.Map{
			"product":      productResponse(&product),
			"old_cost":     oldCost,
			"new_cost":     product.TotalCost,
			"menu_changes": menuChanges,
		})
	}
}

// POST /api/products/recompute-costs (sadece admin)
// Tüm aktif ürünlerin maliyetini tek işlemde yeniden hesaplar: önce
// sandviçler, sonra menüler. Herhangi bir kayıt hatasında işlemin tamamı
// geri alınır.
func RecomputeAllCostsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, changes, err := costing.RecomputeAllTx(database.DB)
		if err != nil {
			log.Printf("[ERROR] toplu maliyet güncellemesi başarısız: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Toplu maliyet güncellemesi başarısız")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "cost_batch",
			Action:      models.AuditActionRecompute,
			Description: fmt.Sprintf("Toplu maliyet güncellemesi: %d ürünün maliyeti değişti", count),
			After:       changes,
		})

		return c.JSON(fiber.Map{
			"updated": count,
			"changes": changes,
		})
	}
}
