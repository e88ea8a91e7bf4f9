package catalog

import (
	"strings"

	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IngredientResponse struct {
	ID              uint            `json:"id"`
	WrinCode        string          `json:"wrin_code"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	UnitType        string          `json:"unit_type"`
	TemperatureZone string          `json:"temperature_zone"`
}

type CreateIngredientRequest struct {
	WrinCode        string          `json:"wrin_code"` // Opsiyonel
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	UnitType        string          `json:"unit_type"`
	TemperatureZone string          `json:"temperature_zone"`
}

type UpdateIngredientRequest struct {
	WrinCode        *string          `json:"wrin_code"`
	Name            *string          `json:"name"`
	Category        *string          `json:"category"`
	PricePerUnit    *decimal.Decimal `json:"price_per_unit"`
	UnitType        *string          `json:"unit_type"`
	TemperatureZone *string          `json:"temperature_zone"`
}

func ingredientResponse(i *models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              i.ID,
		WrinCode:        i.WrinCode,
		Name:            i.Name,
		Category:        i.Category,
		PricePerUnit:    i.PricePerUnit,
		UnitType:        i.UnitType,
		TemperatureZone: i.TemperatureZone,
	}
}

func validUnitType(unit string) bool {
	for _, u := range models.ValidUnitTypes {
		if u == unit {
			return true
		}
	}
	return false
}

func validCategory(category string) bool {
	_, ok := models.IngredientCategories[category]
	return ok
}

// GET /api/ingredients?search=&category= (tüm authenticated kullanıcılar görebilir)
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Ingredient{}).Where("is_active = ?", true)

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+search+"%")
		}
		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}

		var ingredients []models.Ingredient
		if err := dbq.Order("category asc, name asc").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		res := make([]IngredientResponse, 0, len(ingredients))
		for i := range ingredients {
			res = append(res, ingredientResponse(&ingredients[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/ingredients/categories
func ListIngredientCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []string
		if err := database.DB.Model(&models.Ingredient{}).
			Where("is_active = ?", true).
			Distinct().Order("category asc").
			Pluck("category", &categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}
		return c.JSON(categories)
	}
}

// POST /api/ingredients (manager+)
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.WrinCode = strings.TrimSpace(body.WrinCode)
		body.Category = strings.TrimSpace(body.Category)
		body.UnitType = strings.TrimSpace(body.UnitType)

		if body.Name == "" || body.Category == "" || body.UnitType == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, category ve unit_type zorunlu")
		}
		if !validCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori")
		}
		if !validUnitType(body.UnitType) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ölçü birimi")
		}
		if body.PricePerUnit.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
		}

		// WRIN kodu unique kontrolü (boş değilse)
		if body.WrinCode != "" {
			var existing models.Ingredient
			if err := database.DB.Where("wrin_code = ?", body.WrinCode).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu WRIN kodu zaten kullanılıyor")
			}
		}

		userID := auth.CurrentUserID(c)
		ingredient := models.Ingredient{
			WrinCode:        body.WrinCode,
			Name:            body.Name,
			Category:        body.Category,
			PricePerUnit:    body.PricePerUnit,
			UnitType:        body.UnitType,
			TemperatureZone: body.TemperatureZone,
			IsActive:        true,
			CreatedBy:       &userID,
		}

		if err := database.DB.Create(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme oluşturulamadı")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUsername(c),
			EntityType:  "ingredient",
			EntityID:    ingredient.ID,
			Action:      models.AuditActionCreate,
			Description: "Malzeme oluşturuldu: " + ingredient.Name,
			After:       ingredient,
		})

		return c.Status(fiber.StatusCreated).JSON(ingredientResponse(&ingredient))
	}
}

// PUT /api/ingredients/:id (manager+)
// Fiyat değişikliği ürün maliyetlerini OTOMATİK güncellemez; maliyetler
// explicit recompute çağrılana kadar bayat kalır. Bu bilinçli bir tasarım.
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}
		before := ingredient

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			ingredient.Name = name
		}
		if body.Category != nil {
			if !validCategory(*body.Category) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori")
			}
			ingredient.Category = *body.Category
		}
		if body.UnitType != nil {
			if !validUnitType(*body.UnitType) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ölçü birimi")
			}
			ingredient.UnitType = *body.UnitType
		}
		if body.PricePerUnit != nil {
			if body.PricePerUnit.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
			}
			ingredient.PricePerUnit = *body.PricePerUnit
		}
		if body.TemperatureZone != nil {
			ingredient.TemperatureZone = *body.TemperatureZone
		}
		if body.WrinCode != nil {
			code := strings.TrimSpace(*body.WrinCode)
			if code != "" && code != before.WrinCode {
				var existing models.Ingredient
				if err := database.DB.Where("wrin_code = ? AND id <> ?", code, ingredient.ID).First(&existing).Error; err == nil {
					return fiber.NewError(fiber.StatusBadRequest, "Bu WRIN kodu zaten kullanılıyor")
				}
			}
			ingredient.WrinCode = code
		}

		if err := database.DB.Save(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "ingredient",
			EntityID:    ingredient.ID,
			Action:      models.AuditActionUpdate,
			Description: "Malzeme güncellendi: " + ingredient.Name,
			Before:      before,
			After:       ingredient,
		})

		return c.JSON(ingredientResponse(&ingredient))
	}
}

// DELETE /api/ingredients/:id (manager+) - soft delete
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		// Üründe kullanılan malzeme silinemez
		var usageCount int64
		database.DB.Model(&models.ProductIngredient{}).
			Where("ingredient_id = ?", ingredient.ID).
			Count(&usageCount)
		if usageCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu malzeme ürünlerde kullanılıyor, silinemez")
		}

		ingredient.IsActive = false
		if err := database.DB.Save(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "ingredient",
			EntityID:    ingredient.ID,
			Action:      models.AuditActionDelete,
			Description: "Malzeme silindi: " + ingredient.Name,
			Before:      ingredient,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
