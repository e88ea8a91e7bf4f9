package analytics

import (
	"sort"
	"time"

	"menucost-backend/internal/auth"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductCostSummary struct {
	ID                 uint             `json:"id"`
	Name               string           `json:"name"`
	ProductCode        string           `json:"product_code"`
	ProductType        string           `json:"product_type"`
	TotalCost          decimal.Decimal  `json:"total_cost"`
	SellingPrice       *decimal.Decimal `json:"selling_price"`
	GrossProfit        *decimal.Decimal `json:"gross_profit"`
	GrossProfitPercent *decimal.Decimal `json:"gross_profit_percent"`
}

type CategoryUsage struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// GET /api/dashboard
// Özet göstergeler. Manager tüm ürünleri, normal kullanıcı yalnız kendi
// ürünlerini görür.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		base := database.DB.Model(&models.Product{}).Where("is_active = ?", true)
		if !auth.IsManager(c) {
			base = base.Where("created_by = ?", auth.CurrentUserID(c))
		}

		var products []models.Product
		if err := base.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}

		var sandwichCount, menuCount int
		costSum := decimal.Zero
		profitSum := decimal.Zero
		profitCount := 0
		for _, p := range products {
			if p.ProductType == models.ProductTypeSandwich {
				sandwichCount++
			} else {
				menuCount++
			}
			costSum = costSum.Add(p.TotalCost)
			if p.GrossProfit != nil {
				profitSum = profitSum.Add(*p.GrossProfit)
				profitCount++
			}
		}

		avgCost := decimal.Zero
		if len(products) > 0 {
			avgCost = costSum.Div(decimal.NewFromInt(int64(len(products))))
		}
		avgProfit := decimal.Zero
		if profitCount > 0 {
			avgProfit = profitSum.Div(decimal.NewFromInt(int64(profitCount)))
		}

		// Maliyeti en yüksek 10 ürün
		topByCost := topProductsByCost(products, 10)

		// Malzeme kategorisi kullanım dağılımı
		var categoryUsage []CategoryUsage
		database.DB.Model(&models.ProductIngredient{}).
			Select("ingredients.category AS category, COUNT(*) AS count").
			Joins("JOIN ingredients ON ingredients.id = product_ingredients.ingredient_id").
			Group("ingredients.category").
			Order("count DESC").
			Scan(&categoryUsage)

		// Son 30 günde eklenen ürünler
		var recentCount int64
		recentQuery := database.DB.Model(&models.Product{}).
			Where("is_active = ? AND created_at >= ?", true, time.Now().AddDate(0, 0, -30))
		if !auth.IsManager(c) {
			recentQuery = recentQuery.Where("created_by = ?", auth.CurrentUserID(c))
		}
		recentQuery.Count(&recentCount)

		var ingredientCount int64
		database.DB.Model(&models.Ingredient{}).Where("is_active = ?", true).Count(&ingredientCount)

		res := fiber.Map{
			"product_count":        len(products),
			"sandwich_count":       sandwichCount,
			"menu_count":           menuCount,
			"ingredient_count":     ingredientCount,
			"avg_cost":             avgCost,
			"avg_gross_profit":     avgProfit,
			"top_by_cost":          topByCost,
			"category_usage":       categoryUsage,
			"recent_product_count": recentCount,
		}

		// Restoran sayısı sadece manager panosunda
		if auth.IsManager(c) {
			var restaurantCount int64
			database.DB.Model(&models.Restaurant{}).Where("is_active = ?", true).Count(&restaurantCount)
			res["restaurant_count"] = restaurantCount
		}

		return c.JSON(res)
	}
}

func topProductsByCost(products []models.Product, limit int) []ProductCostSummary {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalCost.GreaterThan(sorted[j].TotalCost)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	res := make([]ProductCostSummary, 0, len(sorted))
	for _, p := range sorted {
		res = append(res, ProductCostSummary{
			ID:                 p.ID,
			Name:               p.Name,
			ProductCode:        p.ProductCode,
			ProductType:        string(p.ProductType),
			TotalCost:          p.TotalCost,
			SellingPrice:       p.SellingPrice,
			GrossProfit:        p.GrossProfit,
			GrossProfitPercent: p.GrossProfitPercent,
		})
	}
	return res
}
