package mapping

import (
	"strings"

	"menucost-backend/internal/audit"
	"menucost-backend/internal/auth"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RestaurantRequest struct {
	Name           string `json:"name"`
	RestaurantCode string `json:"restaurant_code"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

type RestaurantResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	RestaurantCode string `json:"restaurant_code"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	IsActive       bool   `json:"is_active"`
	ListingCount   int64  `json:"listing_count"`
}

func restaurantResponse(r *models.Restaurant, listingCount int64) RestaurantResponse {
	return RestaurantResponse{
		ID:             r.ID,
		Name:           r.Name,
		RestaurantCode: r.RestaurantCode,
		Address:        r.Address,
		City:           r.City,
		PostalCode:     r.PostalCode,
		Phone:          r.Phone,
		Email:          r.Email,
		IsActive:       r.IsActive,
		ListingCount:   listingCount,
	}
}

// GET /api/restaurants?search=&city=
func ListRestaurantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Restaurant{}).Where("is_active = ?", true)

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("name ILIKE ? OR restaurant_code ILIKE ?", "%"+search+"%", "%"+search+"%")
		}
		if city := c.Query("city"); city != "" {
			dbq = dbq.Where("city = ?", city)
		}

		var restaurants []models.Restaurant
		if err := dbq.Order("name asc").Find(&restaurants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoranlar listelenemedi")
		}

		res := make([]RestaurantResponse, 0, len(restaurants))
		for i := range restaurants {
			var count int64
			database.DB.Model(&models.ProductListing{}).
				Where("restaurant_id = ? AND is_available = ?", restaurants[i].ID, true).
				Count(&count)
			res = append(res, restaurantResponse(&restaurants[i], count))
		}
		return c.JSON(res)
	}
}

// POST /api/restaurants (sadece manager)
func CreateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.RestaurantCode = strings.TrimSpace(body.RestaurantCode)

		if body.Name == "" || body.RestaurantCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve RestaurantCode zorunlu")
		}
		if body.Address == "" || body.City == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Address ve City zorunlu")
		}

		var existing models.Restaurant
		if err := database.DB.Where("restaurant_code = ?", body.RestaurantCode).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu restoran kodu zaten kullanılıyor")
		}

		restaurant := models.Restaurant{
			Name:           body.Name,
			RestaurantCode: body.RestaurantCode,
			Address:        body.Address,
			City:           body.City,
			PostalCode:     body.PostalCode,
			Phone:          body.Phone,
			Email:          body.Email,
			IsActive:       true,
		}
		if err := database.DB.Create(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran oluşturulamadı")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionCreate,
			Description: "Restoran oluşturuldu: " + restaurant.Name,
			After:       restaurant,
		})

		return c.Status(fiber.StatusCreated).JSON(restaurantResponse(&restaurant, 0))
	}
}

// PUT /api/restaurants/:id (sadece manager)
func UpdateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}
		before := restaurant

		var body RestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			restaurant.Name = name
		}
		if code := strings.TrimSpace(body.RestaurantCode); code != "" && code != restaurant.RestaurantCode {
			var existing models.Restaurant
			if err := database.DB.Where("restaurant_code = ? AND id <> ?", code, restaurant.ID).
				First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu restoran kodu zaten kullanılıyor")
			}
			restaurant.RestaurantCode = code
		}
		if body.Address != "" {
			restaurant.Address = body.Address
		}
		if body.City != "" {
			restaurant.City = body.City
		}
		if body.PostalCode != "" {
			restaurant.PostalCode = body.PostalCode
		}
		if body.Phone != "" {
			restaurant.Phone = body.Phone
		}
		if body.Email != "" {
			restaurant.Email = body.Email
		}

		if err := database.DB.Save(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran güncellenemedi")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionUpdate,
			Description: "Restoran güncellendi: " + restaurant.Name,
			Before:      before,
			After:       restaurant,
		})

		var count int64
		database.DB.Model(&models.ProductListing{}).
			Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).
			Count(&count)
		return c.JSON(restaurantResponse(&restaurant, count))
	}
}

// DELETE /api/restaurants/:id (sadece manager) - soft delete
func DeleteRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		restaurant.IsActive = false
		if err := database.DB.Save(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Restoran silinemedi")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      auth.CurrentUserID(c),
			UserName:    auth.CurrentUsername(c),
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionDelete,
			Description: "Restoran silindi: " + restaurant.Name,
			Before:      restaurant,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
