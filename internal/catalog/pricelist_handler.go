package catalog

import (
	"fmt"

	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ParsePriceListRequest struct {
	Text string `json:"text"`
}

type ApplyPriceUpdate struct {
	IngredientID uint            `json:"ingredient_id"`
	NewPrice     decimal.Decimal `json:"new_price"`
}

type ApplyPriceListRequest struct {
	Updates []ApplyPriceUpdate `json:"updates"`
}

// validatePriceUpdates - Uygulamadan önce tüm satırlar denetlenir; tek satır
// bile geçersizse hiçbir fiyat yazılmaz.
func validatePriceUpdates(updates []ApplyPriceUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("güncellenecek satır yok")
	}
	for _, u := range updates {
		if u.IngredientID == 0 {
			return fmt.Errorf("geçersiz malzeme id")
		}
		if u.NewPrice.IsNegative() {
			return fmt.Errorf("negatif fiyat uygulanamaz (malzeme id=%d)", u.IngredientID)
		}
	}
	return nil
}

// POST /api/ingredients/price-list/parse
// Yapıştırılan tedarikçi listesini önizleme olarak döner, fiyat değiştirmez.
func ParsePriceListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ParsePriceListRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Liste metni boş")
		}

		result, err := ParsePriceList(database.DB, body.Text)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(result)
	}
}

// POST /api/ingredients/price-list/apply (sadece manager)
// Onaylanan fiyat güncellemelerini tek işlemde uygular. Audit kayıtları
// ancak commit başarılı olduktan sonra yazılır; rollback olan bir batch
// audit izinde görünmez. Ürün maliyetleri burada kendiliğinden güncellenmez;
// toplu güncelleme ucu ayrıca çağrılır.
func ApplyPriceListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyPriceListRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if err := validatePriceUpdates(body.Updates); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID := auth.CurrentUserID(c)
		userName := auth.CurrentUsername(c)

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		updated := 0
		pendingLogs := make([]audit.LogOptions, 0, len(body.Updates))
		for _, u := range body.Updates {
			var ingredient models.Ingredient
			if err := tx.First(&ingredient, "id = ?", u.IngredientID).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Malzeme bulunamadı (id=%d)", u.IngredientID))
			}
			before := ingredient

			if ingredient.PricePerUnit.Equal(u.NewPrice) {
				continue
			}
			ingredient.PricePerUnit = u.NewPrice
			if err := tx.Save(&ingredient).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Fiyat güncellenemedi")
			}
			updated++

			pendingLogs = append(pendingLogs, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ingredient.ID,
				Action:      models.AuditActionUpdate,
				Description: "Tedarikçi listesinden fiyat güncellendi: " + ingredient.Name,
				Before:      before,
				After:       ingredient,
			})
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		for _, opts := range pendingLogs {
			audit.WriteLog(opts)
		}

		return c.JSON(fiber.Map{
			"updated": updated,
			"message": fmt.Sprintf("%d malzeme fiyatı güncellendi", updated),
		})
	}
}
