package mapping

import (
	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type UpsertListingRequest struct {
	ProductID     uint             `json:"product_id"`
	LocalPrice    decimal.Decimal  `json:"local_price"`
	DeliveryPrice *decimal.Decimal `json:"delivery_price"` // nil ise local fiyat kullanılır
	IsAvailable   *bool            `json:"is_available"`
}

type ListingResponse struct {
	ID            uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code"`
	ProductType   string          `json:"product_type"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	LocalPrice    decimal.Decimal `json:"local_price"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	Markup        decimal.Decimal `json:"markup"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	IsAvailable   bool            `json:"is_available"`
}

func listingResponse(listing *models.ProductListing) ListingResponse {
	return ListingResponse{
		ID:            listing.ID,
		ProductID:     listing.ProductID,
		ProductName:   listing.Product.Name,
		ProductCode:   listing.Product.ProductCode,
		ProductType:   string(listing.Product.ProductType),
		TotalCost:     listing.Product.TotalCost,
		LocalPrice:    listing.LocalPrice,
		DeliveryPrice: listing.DeliveryPrice,
		Markup:        listing.Markup(),
		MarginPercent: MarginPercent(listing.LocalPrice, listing.Product.TotalCost),
		IsAvailable:   listing.IsAvailable,
	}
}

type RestaurantProductRow struct {
	ProductID     uint             `json:"product_id"`
	ProductName   string           `json:"product_name"`
	ProductCode   string           `json:"product_code"`
	ProductType   string           `json:"product_type"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	Listed        bool             `json:"listed"`
	LocalPrice    *decimal.Decimal `json:"local_price,omitempty"`
	DeliveryPrice *decimal.Decimal `json:"delivery_price,omitempty"`
	Markup        *decimal.Decimal `json:"markup,omitempty"`
	MarginPercent *decimal.Decimal `json:"margin_percent,omitempty"`
	IsAvailable   bool             `json:"is_available"`
}

// GET /api/restaurants/:id/listings
// Restoranın fiyat listesi: tüm aktif ürünler, fiyat kaydı olanlar
// marj/markup bilgisiyle. Marjın temeli ürünün kayıtlı maliyetidir.
func RestaurantListingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var products []models.Product
		if err := database.DB.Where("is_active = ?", true).
			Order("product_type asc, name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}

		var listings []models.ProductListing
		if err := database.DB.Where("restaurant_id = ?", restaurant.ID).
			Find(&listings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat listesi okunamadı")
		}
		byProduct := make(map[uint]*models.ProductListing, len(listings))
		for i := range listings {
			byProduct[listings[i].ProductID] = &listings[i]
		}

		rows := make([]RestaurantProductRow, 0, len(products))
		listedCount := int64(0)
		for i := range products {
			p := &products[i]
			row := RestaurantProductRow{
				ProductID:   p.ID,
				ProductName: p.Name,
				ProductCode: p.ProductCode,
				ProductType: string(p.ProductType),
				TotalCost:   p.TotalCost,
			}
			if listing, ok := byProduct[p.ID]; ok {
				listedCount++
				markup := listing.Markup()
				margin := MarginPercent(listing.LocalPrice, p.TotalCost)
				row.Listed = true
				row.LocalPrice = &listing.LocalPrice
				row.DeliveryPrice = &listing.DeliveryPrice
				row.Markup = &markup
				row.MarginPercent = &margin
				row.IsAvailable = listing.IsAvailable
			}
			rows = append(rows, row)
		}

		return c.JSON(fiber.Map{
			"restaurant": restaurantResponse(&restaurant, listedCount),
			"products":   rows,
		})
	}
}

// PUT /api/restaurants/:id/listings (sadece manager)
// Restoran-ürün çifti için upsert: kayıt varsa fiyatlar güncellenir,
// yoksa oluşturulur.
func UpsertListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var body UpsertListingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ProductID zorunlu")
		}
		if body.LocalPrice.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ? AND is_active = ?", body.ProductID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		deliveryPrice := body.LocalPrice
		if body.DeliveryPrice != nil {
			if body.DeliveryPrice.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			deliveryPrice = *body.DeliveryPrice
		}

		var listing models.ProductListing
		err := database.DB.Where("restaurant_id = ? AND product_id = ?", restaurant.ID, body.ProductID).
			First(&listing).Error

		action := models.AuditActionUpdate
		if err != nil {
			listing = models.ProductListing{
				RestaurantID: restaurant.ID,
				ProductID:    body.ProductID,
				IsAvailable:  true,
			}
			action = models.AuditActionCreate
		}
		before := listing

		listing.LocalPrice = body.LocalPrice
		listing.DeliveryPrice = deliveryPrice
		if body.IsAvailable != nil {
			listing.IsAvailable = *body.IsAvailable
		}

		if err := database.DB.Save(&listing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat kaydı yazılamadı")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "product_listing",
			EntityID:    listing.ID,
			Action:      action,
			Description: "Restoran fiyatı güncellendi: " + restaurant.Name + " / " + product.Name,
			Before:      before,
			After:       listing,
		})

		listing.Product = product
		return c.JSON(listingResponse(&listing))
	}
}

type PriceComparisonRow struct {
	RestaurantID   uint            `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	City           string          `json:"city"`
	LocalPrice     decimal.Decimal `json:"local_price"`
	DeliveryPrice  decimal.Decimal `json:"delivery_price"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	IsAvailable    bool            `json:"is_available"`
}

// GET /api/products/:id/price-comparison
// Ürünün tüm restoranlardaki fiyatlarını yan yana getirir.
func PriceComparisonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var listings []models.ProductListing
		if err := database.DB.Preload("Restaurant").
			Where("product_id = ?", product.ID).
			Find(&listings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat kayıtları okunamadı")
		}

		rows := make([]PriceComparisonRow, 0, len(listings))
		minPrice := decimal.Zero
		maxPrice := decimal.Zero
		availableSeen := false
		for _, listing := range listings {
			// Min/max sadece satışta olan kayıtlar üzerinden
			if listing.IsAvailable {
				if !availableSeen || listing.LocalPrice.LessThan(minPrice) {
					minPrice = listing.LocalPrice
				}
				if !availableSeen || listing.LocalPrice.GreaterThan(maxPrice) {
					maxPrice = listing.LocalPrice
				}
				availableSeen = true
			}
			rows = append(rows, PriceComparisonRow{
				RestaurantID:   listing.RestaurantID,
				RestaurantName: listing.Restaurant.Name,
				City:           listing.Restaurant.City,
				LocalPrice:     listing.LocalPrice,
				DeliveryPrice:  listing.DeliveryPrice,
				MarginPercent:  MarginPercent(listing.LocalPrice, product.TotalCost),
				IsAvailable:    listing.IsAvailable,
			})
		}

		return c.JSON(fiber.Map{
			"product_id":   product.ID,
			"product_name": product.Name,
			"total_cost":   product.TotalCost,
			"min_price":    minPrice,
			"max_price":    maxPrice,
			"spread":       maxPrice.Sub(minPrice),
			"rows":         rows,
		})
	}
}

// GET /api/restaurants/:id/stats
// Restoran bazlı özet: kalem sayısı, ortalama marj, en düşük marjlı ürünler.
func RestaurantStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var listings []models.ProductListing
		if err := database.DB.Preload("Product").
			Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).
			Find(&listings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat kayıtları okunamadı")
		}

		var sandwichCount, menuCount int
		localSum := decimal.Zero
		deliverySum := decimal.Zero
		markupSum := decimal.Zero
		marginSum := decimal.Zero
		lowMargin := make([]ListingResponse, 0)
		for i := range listings {
			if listings[i].Product.ProductType == models.ProductTypeSandwich {
				sandwichCount++
			} else {
				menuCount++
			}
			localSum = localSum.Add(listings[i].LocalPrice)
			deliverySum = deliverySum.Add(listings[i].DeliveryPrice)
			markupSum = markupSum.Add(listings[i].Markup())
			margin := MarginPercent(listings[i].LocalPrice, listings[i].Product.TotalCost)
			marginSum = marginSum.Add(margin)
			// %30 altı marj düşük kabul edilir
			if margin.LessThan(decimal.NewFromInt(30)) {
				lowMargin = append(lowMargin, listingResponse(&listings[i]))
			}
		}

		avgLocal := decimal.Zero
		avgDelivery := decimal.Zero
		avgMarkup := decimal.Zero
		avgMargin := decimal.Zero
		if n := int64(len(listings)); n > 0 {
			divisor := decimal.NewFromInt(n)
			avgLocal = localSum.Div(divisor)
			avgDelivery = deliverySum.Div(divisor)
			avgMarkup = markupSum.Div(divisor)
			avgMargin = marginSum.Div(divisor)
		}

		return c.JSON(fiber.Map{
			"restaurant":          restaurantResponse(&restaurant, int64(len(listings))),
			"listing_count":       len(listings),
			"sandwich_count":      sandwichCount,
			"menu_count":          menuCount,
			"avg_local_price":     avgLocal,
			"avg_delivery_price":  avgDelivery,
			"avg_markup":          avgMarkup,
			"avg_margin_percent":  avgMargin,
			"low_margin_listings": lowMargin,
		})
	}
}
