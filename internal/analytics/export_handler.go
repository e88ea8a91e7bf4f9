package analytics

import (
	"fmt"
	"time"

	"menucost-backend/internal/auth"
	"menucost-backend/internal/database"
	"menucost-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/cost-export
// Aktif ürünlerin maliyet raporunu XLSX olarak indirir. Manager tüm
// ürünleri, normal kullanıcı kendi ürünlerini alır.
func ExportCostReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Where("is_active = ?", true)
		if !auth.IsManager(c) {
			dbq = dbq.Where("created_by = ?", auth.CurrentUserID(c))
		}

		var products []models.Product
		if err := dbq.Order("product_type asc, name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Maliyet Raporu"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Ürün Kodu", "Ürün Adı", "Tip", "Maliyet", "Satış Fiyatı", "Brüt Kâr", "Kâr %"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		})
		if err == nil {
			f.SetCellStyle(sheet, "A1", "G1", headerStyle)
		}

		for i, p := range products {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.ProductCode)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(p.ProductType))
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.TotalCost.InexactFloat64())
			if p.SellingPrice != nil {
				f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.SellingPrice.InexactFloat64())
			}
			if p.GrossProfit != nil {
				f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.GrossProfit.InexactFloat64())
			}
			if p.GrossProfitPercent != nil {
				f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.GrossProfitPercent.InexactFloat64())
			}
		}

		f.SetColWidth(sheet, "A", "A", 14)
		f.SetColWidth(sheet, "B", "B", 32)
		f.SetColWidth(sheet, "D", "G", 14)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		filename := fmt.Sprintf("maliyet-raporu-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/restaurant-export/:id
// Tek restoranın fiyat listesini XLSX olarak indirir (sadece manager).
func ExportRestaurantListingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restoran bulunamadı")
		}

		var listings []models.ProductListing
		if err := database.DB.Preload("Product").
			Where("restaurant_id = ?", restaurant.ID).
			Order("id asc").
			Find(&listings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat kayıtları okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Fiyat Listesi"
		f.SetSheetName("Sheet1", sheet)

		f.SetCellValue(sheet, "A1", restaurant.Name+" ("+restaurant.RestaurantCode+")")
		headers := []string{"Ürün Kodu", "Ürün Adı", "Maliyet", "Restoran Fiyatı", "Paket Fiyatı", "Satışta"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 2)
			f.SetCellValue(sheet, cell, h)
		}

		for i, listing := range listings {
			row := i + 3
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), listing.Product.ProductCode)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), listing.Product.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), listing.Product.TotalCost.InexactFloat64())
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), listing.LocalPrice.InexactFloat64())
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), listing.DeliveryPrice.InexactFloat64())
			available := "Hayır"
			if listing.IsAvailable {
				available = "Evet"
			}
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), available)
		}

		f.SetColWidth(sheet, "A", "A", 14)
		f.SetColWidth(sheet, "B", "B", 32)
		f.SetColWidth(sheet, "C", "E", 16)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		filename := fmt.Sprintf("fiyat-listesi-%s.xlsx", restaurant.RestaurantCode)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
