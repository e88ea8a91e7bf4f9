package catalog

import (
	"fmt"
	"strings"

	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/costing"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IngredientLineRequest struct {
	IngredientID uint             `json:"ingredient_id"`
	Quantity     *decimal.Decimal `json:"quantity"` // nil ise 1 kabul edilir
}

type CreateSandwichRequest struct {
	Name         string                  `json:"name"`
	ProductCode  string                  `json:"product_code"` // Boşsa otomatik üretilir
	SellingPrice *decimal.Decimal        `json:"selling_price"`
	Ingredients  []IngredientLineRequest `json:"ingredients"`
}

type CreateMenuRequest struct {
	Name         string           `json:"name"`
	ProductCode  string           `json:"product_code"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	SandwichID   *uint            `json:"sandwich_id"`
	FriesSize    string           `json:"fries_size"`
	DrinkSize    string           `json:"drink_size"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	// Sandviç alanı: verilirse mevcut satırların tamamının yerine geçer
	Ingredients []IngredientLineRequest `json:"ingredients"`
	// Menü alanları
	SandwichID *uint   `json:"sandwich_id"`
	FriesSize  *string `json:"fries_size"`
	DrinkSize  *string `json:"drink_size"`
}

type IngredientLineResponse struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitType     string          `json:"unit_type"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	LineCost     decimal.Decimal `json:"line_cost"`
}

type ProductResponse struct {
	ID                 uint                     `json:"id"`
	Name               string                   `json:"name"`
	ProductCode        string                   `json:"product_code"`
	ProductType        models.ProductType       `json:"product_type"`
	SellingPrice       *decimal.Decimal         `json:"selling_price"`
	TotalCost          decimal.Decimal          `json:"total_cost"`
	GrossProfit        *decimal.Decimal         `json:"gross_profit"`
	GrossProfitPercent *decimal.Decimal         `json:"gross_profit_percent"`
	IsActive           bool                     `json:"is_active"`
	SandwichID         *uint                    `json:"sandwich_id,omitempty"`
	FriesSize          string                   `json:"fries_size,omitempty"`
	DrinkSize          string                   `json:"drink_size,omitempty"`
	Ingredients        []IngredientLineResponse `json:"ingredients,omitempty"`
}

func productResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		ProductCode:        p.ProductCode,
		ProductType:        p.ProductType,
		SellingPrice:       p.SellingPrice,
		TotalCost:          p.TotalCost,
		GrossProfit:        p.GrossProfit,
		GrossProfitPercent: p.GrossProfitPercent,
		IsActive:           p.IsActive,
		SandwichID:         p.SandwichID,
		FriesSize:          p.FriesSize,
		DrinkSize:          p.DrinkSize,
	}
}

// nextProductCode - SW_{user}_{n} / MN_{user}_{n} biçiminde benzersiz kod üretir
func nextProductCode(db *gorm.DB, userID uint, productType models.ProductType) (string, error) {
	prefix := "SW"
	if productType == models.ProductTypeMenu {
		prefix = "MN"
	}

	var count int64
	if err := db.Model(&models.Product{}).Where("created_by = ?", userID).Count(&count).Error; err != nil {
		return "", err
	}

	// Çakışma olursa sayacı kaydırarak birkaç kez dene
	for attempt := 0; attempt < 10; attempt++ {
		code := fmt.Sprintf("%s_%d_%d", prefix, userID, count+1+int64(attempt))
		var existing models.Product
		if err := db.Where("product_code = ?", code).First(&existing).Error; err != nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("benzersiz ürün kodu üretilemedi")
}

// buildLines - İstekteki malzeme satırlarını doğrular. Aynı malzeme iki kez
// verilemez, referans verilen malzeme var olmalı (oluşturma anında sessiz
// sıfır maliyet yok, yüksek sesle hata).
func buildLines(db *gorm.DB, productID uint, reqLines []IngredientLineRequest) ([]models.ProductIngredient, error) {
	seen := make(map[uint]bool, len(reqLines))
	lines := make([]models.ProductIngredient, 0, len(reqLines))

	for _, rl := range reqLines {
		if rl.IngredientID == 0 {
			continue
		}
		if seen[rl.IngredientID] {
			return nil, fmt.Errorf("aynı malzeme bir üründe yalnız bir kez yer alabilir (id=%d)", rl.IngredientID)
		}
		seen[rl.IngredientID] = true

		var ingredient models.Ingredient
		if err := db.First(&ingredient, "id = ?", rl.IngredientID).Error; err != nil {
			return nil, fmt.Errorf("malzeme bulunamadı (id=%d)", rl.IngredientID)
		}

		quantity := decimal.NewFromInt(1)
		if rl.Quantity != nil {
			if rl.Quantity.IsNegative() {
				return nil, fmt.Errorf("miktar negatif olamaz (malzeme id=%d)", rl.IngredientID)
			}
			quantity = *rl.Quantity
		}

		lines = append(lines, models.ProductIngredient{
			ProductID:    productID,
			IngredientID: rl.IngredientID,
			Quantity:     quantity,
		})
	}
	return lines, nil
}

func validSizeLabel(table map[string]decimal.Decimal, label string) bool {
	if label == "" {
		return true
	}
	_, ok := table[label]
	return ok
}

// POST /api/products/sandwich
func CreateSandwichHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSandwichRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.ProductCode = strings.TrimSpace(body.ProductCode)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if len(body.Ingredients) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir malzeme seçilmeli")
		}

		userID := auth.CurrentUserID(c)

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		code := body.ProductCode
		if code == "" {
			var err error
			if code, err = nextProductCode(tx, userID, models.ProductTypeSandwich); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün kodu üretilemedi")
			}
		} else {
			var existing models.Product
			if err := tx.Where("product_code = ?", code).First(&existing).Error; err == nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kodu zaten kullanılıyor")
			}
		}

		product := models.Product{
			Name:         body.Name,
			ProductCode:  code,
			ProductType:  models.ProductTypeSandwich,
			SellingPrice: body.SellingPrice,
			IsActive:     true,
			CreatedBy:    userID,
		}
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		lines, err := buildLines(tx, product.ID, body.Ingredients)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(lines) == 0 {
			tx.Rollback()
			return fiber.NewError(fiber.StatusBadRequest, "En az bir malzeme seçilmeli")
		}
		if err := tx.Create(&lines).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme satırları kaydedilemedi")
		}

		// Maliyet ve kâr alanlarını hesapla
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

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUsername(c),
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionCreate,
			Description: "Sandviç oluşturuldu: " + product.Name,
			After:       product,
		})

		return c.Status(fiber.StatusCreated).JSON(productResponse(&product))
	}
}

// POST /api/products/menu
func CreateMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.ProductCode = strings.TrimSpace(body.ProductCode)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if !validSizeLabel(costing.FriesPrices, body.FriesSize) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz patates boyu")
		}
		if !validSizeLabel(costing.DrinkPrices, body.DrinkSize) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz içecek boyu")
		}

		userID := auth.CurrentUserID(c)

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		// Baz sandviç var mı ve gerçekten sandviç mi?
		if body.SandwichID != nil {
			var base models.Product
			if err := tx.First(&base, "id = ?", *body.SandwichID).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, "Baz sandviç bulunamadı")
			}
			if base.ProductType != models.ProductTypeSandwich {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, "Menünün bazı sandviç tipinde olmalı")
			}
		}

		code := body.ProductCode
		if code == "" {
			var err error
			if code, err = nextProductCode(tx, userID, models.ProductTypeMenu); err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün kodu üretilemedi")
			}
		} else {
			var existing models.Product
			if err := tx.Where("product_code = ?", code).First(&existing).Error; err == nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kodu zaten kullanılıyor")
			}
		}

		menu := models.Product{
			Name:         body.Name,
			ProductCode:  code,
			ProductType:  models.ProductTypeMenu,
			SellingPrice: body.SellingPrice,
			SandwichID:   body.SandwichID,
			FriesSize:    body.FriesSize,
			DrinkSize:    body.DrinkSize,
			IsActive:     true,
			CreatedBy:    userID,
		}
		if err := tx.Create(&menu).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Menü oluşturulamadı")
		}

		engine := costing.NewEngine(costing.NewRepository(tx))
		if _, err := engine.RecalculateCost(&menu); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := tx.Model(&menu).Updates(map[string]interface{}{
			"total_cost":           menu.TotalCost,
			"gross_profit":         menu.GrossProfit,
			"gross_profit_percent": menu.GrossProfitPercent,
		}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet kaydedilemedi")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUsername(c),
			EntityType:  "product",
			EntityID:    menu.ID,
			Action:      models.AuditActionCreate,
			Description: "Menü oluşturuldu: " + menu.Name,
			After:       menu,
		})

		return c.Status(fiber.StatusCreated).JSON(productResponse(&menu))
	}
}

// PUT /api/products/:id
// Kompozisyon değişikliğinden sonra maliyet yeniden hesaplanır; sandviçin
// maliyeti değiştiyse ona bağlı menüler de aynı işlemde tazelenir.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if !auth.IsManager(c) && product.CreatedBy != auth.CurrentUserID(c) {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürünü düzenleme yetkiniz yok")
		}
		before := product

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			product.Name = name
		}
		if body.SellingPrice != nil {
			product.SellingPrice = body.SellingPrice
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if product.ProductType == models.ProductTypeSandwich {
			if body.Ingredients != nil {
				// Mevcut satırların tamamının yerine yenileri geçer
				if err := tx.Where("product_id = ?", product.ID).
					Delete(&models.ProductIngredient{}).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Malzeme satırları güncellenemedi")
				}
				lines, err := buildLines(tx, product.ID, body.Ingredients)
				if err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusBadRequest, err.Error())
				}
				if len(lines) > 0 {
					if err := tx.Create(&lines).Error; err != nil {
						tx.Rollback()
						return fiber.NewError(fiber.StatusInternalServerError, "Malzeme satırları kaydedilemedi")
					}
				}
			}
		} else {
			if body.SandwichID != nil {
				var base models.Product
				if err := tx.First(&base, "id = ? AND product_type = ?", *body.SandwichID, models.ProductTypeSandwich).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusBadRequest, "Baz sandviç bulunamadı")
				}
				product.SandwichID = body.SandwichID
			}
			if body.FriesSize != nil {
				if !validSizeLabel(costing.FriesPrices, *body.FriesSize) {
					tx.Rollback()
					return fiber.NewError(fiber.StatusBadRequest, "Geçersiz patates boyu")
				}
				product.FriesSize = *body.FriesSize
			}
			if body.DrinkSize != nil {
				if !validSizeLabel(costing.DrinkPrices, *body.DrinkSize) {
					tx.Rollback()
					return fiber.NewError(fiber.StatusBadRequest, "Geçersiz içecek boyu")
				}
				product.DrinkSize = *body.DrinkSize
			}
		}

		engine := costing.NewEngine(costing.NewRepository(tx))
		if _, err := engine.RecalculateCost(&product); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":                 product.Name,
				"selling_price":        product.SellingPrice,
				"sandwich_id":          product.SandwichID,
				"fries_size":           product.FriesSize,
				"drink_size":           product.DrinkSize,
				"total_cost":           product.TotalCost,
				"gross_profit":         product.GrossProfit,
				"gross_profit_percent": product.GrossProfitPercent,
			}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		// Sandviç maliyeti değiştiyse bağımlı menüleri aynı işlemde tazele
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

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionUpdate,
			Description: "Ürün güncellendi: " + product.Name,
			Before:      before,
			After:       product,
		})

		return c.JSON(fiber.Map{
			"product":      productResponse(&product),
			"menu_changes": menuChanges,
		})
	}
}

// GET /api/products?search=&type=&sort=&order=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Where("is_active = ?", true)

		// Manager olmayan kullanıcı sadece kendi ürünlerini görür
		if !auth.IsManager(c) {
			dbq = dbq.Where("created_by = ?", auth.CurrentUserID(c))
		}

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("name ILIKE ? OR product_code ILIKE ?", "%"+search+"%", "%"+search+"%")
		}
		if productType := c.Query("type"); productType != "" {
			dbq = dbq.Where("product_type = ?", productType)
		}

		order := "desc"
		if c.Query("order") == "asc" {
			order = "asc"
		}
		switch c.Query("sort") {
		case "name":
			dbq = dbq.Order("name " + order)
		case "cost":
			dbq = dbq.Order("total_cost " + order)
		case "profit":
			dbq = dbq.Order("gross_profit " + order)
		default:
			dbq = dbq.Order("created_at " + order)
		}

		var products []models.Product
		if err := dbq.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, productResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if !auth.IsManager(c) && product.CreatedBy != auth.CurrentUserID(c) {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürünü görüntüleme yetkiniz yok")
		}

		res := productResponse(&product)

		if product.ProductType == models.ProductTypeSandwich {
			var lines []models.ProductIngredient
			if err := database.DB.Preload("Ingredient").
				Where("product_id = ?", product.ID).
				Order("id asc").
				Find(&lines).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Malzeme satırları okunamadı")
			}
			for _, line := range lines {
				res.Ingredients = append(res.Ingredients, IngredientLineResponse{
					IngredientID: line.IngredientID,
					Name:         line.Ingredient.Name,
					Quantity:     line.Quantity,
					UnitType:     line.Ingredient.UnitType,
					PricePerUnit: line.Ingredient.PricePerUnit,
					LineCost:     line.Quantity.Mul(line.Ingredient.PricePerUnit),
				})
			}
		}

		return c.JSON(res)
	}
}

// DELETE /api/products/:id - soft delete
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if !auth.IsManager(c) && product.CreatedBy != auth.CurrentUserID(c) {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürünü silme yetkiniz yok")
		}

		// Menüde kullanılan sandviç silinemez
		if product.ProductType == models.ProductTypeSandwich {
			var menuCount int64
			database.DB.Model(&models.Product{}).
				Where("sandwich_id = ? AND is_active = ?", product.ID, true).
				Count(&menuCount)
			if menuCount > 0 {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Bu sandviç %d menüde kullanılıyor, silinemez", menuCount))
			}
		}

		product.IsActive = false
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionDelete,
			Description: "Ürün silindi: " + product.Name,
			Before:      product,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/products/:id/restore
func RestoreProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if !auth.IsManager(c) && product.CreatedBy != auth.CurrentUserID(c) {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürünü geri alma yetkiniz yok")
		}

		product.IsActive = true
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün geri alınamadı")
		}

		return c.JSON(productResponse(&product))
	}
}

// POST /api/products/:id/duplicate
func DuplicateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var original models.Product
		if err := database.DB.First(&original, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if !auth.IsManager(c) && original.CreatedBy != auth.CurrentUserID(c) {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürünü kopyalama yetkiniz yok")
		}

		userID := auth.CurrentUserID(c)

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		code, err := nextProductCode(tx, userID, original.ProductType)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün kodu üretilemedi")
		}

		duplicate := models.Product{
			Name:         original.Name + " (Copy)",
			ProductCode:  code,
			ProductType:  original.ProductType,
			SellingPrice: original.SellingPrice,
			SandwichID:   original.SandwichID,
			FriesSize:    original.FriesSize,
			DrinkSize:    original.DrinkSize,
			IsActive:     true,
			CreatedBy:    userID,
		}
		if err := tx.Create(&duplicate).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün kopyalanamadı")
		}

		if original.ProductType == models.ProductTypeSandwich {
			var lines []models.ProductIngredient
			if err := tx.Where("product_id = ?", original.ID).Order("id asc").Find(&lines).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Malzeme satırları okunamadı")
			}
			for i := range lines {
				lines[i].ID = 0
				lines[i].ProductID = duplicate.ID
			}
			if len(lines) > 0 {
				if err := tx.Create(&lines).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Malzeme satırları kopyalanamadı")
				}
			}
		}

		engine := costing.NewEngine(costing.NewRepository(tx))
		if _, err := engine.RecalculateCost(&duplicate); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet hesaplanamadı")
		}
		if err := tx.Model(&duplicate).Updates(map[string]interface{}{
			"total_cost":           duplicate.TotalCost,
			"gross_profit":         duplicate.GrossProfit,
			"gross_profit_percent": duplicate.GrossProfitPercent,
		}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet kaydedilemedi")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(&duplicate))
	}
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// uniqueIDs - Sıra koruyarak yinelenen ve sıfır id'leri eler
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// POST /api/products/bulk-delete
// Birden çok ürünü tek işlemde pasifleştirir. Menüde kullanılan bir sandviç
// batch içindeyse (ve menüsü batch dışındaysa) tüm batch reddedilir.
func BulkDeleteProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BulkDeleteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		ids := uniqueIDs(body.IDs)
		if len(ids) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Silinecek ürün seçilmedi")
		}

		inBatch := make(map[uint]bool, len(ids))
		for _, id := range ids {
			inBatch[id] = true
		}

		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		pendingLogs := make([]audit.LogOptions, 0, len(ids))
		for _, id := range ids {
			var product models.Product
			if err := tx.First(&product, "id = ?", id).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Ürün bulunamadı (id=%d)", id))
			}
			if !auth.IsManager(c) && product.CreatedBy != auth.CurrentUserID(c) {
				tx.Rollback()
				return fiber.NewError(fiber.StatusForbidden,
					fmt.Sprintf("Bu ürünü silme yetkiniz yok (id=%d)", id))
			}

			if product.ProductType == models.ProductTypeSandwich {
				var menus []models.Product
				if err := tx.Where("sandwich_id = ? AND is_active = ?", product.ID, true).
					Find(&menus).Error; err != nil {
					tx.Rollback()
					return fiber.NewError(fiber.StatusInternalServerError, "Bağımlı menüler okunamadı")
				}
				for _, menu := range menus {
					if !inBatch[menu.ID] {
						tx.Rollback()
						return fiber.NewError(fiber.StatusBadRequest,
							fmt.Sprintf("%s menüsü %s sandviçini kullanıyor, birlikte silinmeli", menu.Name, product.Name))
					}
				}
			}

			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("is_active", false).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
			}

			pendingLogs = append(pendingLogs, audit.LogOptions{
				UserID:      auth.CurrentUserID(c),
				UserName:    auth.CurrentUsername(c),
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionDelete,
				Description: "Ürün toplu silmede pasifleştirildi: " + product.Name,
				Before:      product,
			})
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		for _, opts := range pendingLogs {
			audit.WriteLog(opts)
		}

		return c.JSON(fiber.Map{"deleted": len(ids)})
	}
}
