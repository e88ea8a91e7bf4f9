package costing

import "github.com/shopspring/decimal"

// Menü eklentileri için sabit fiyat tabloları. Boy etiketiyle anahtarlanır;
// tabloda olmayan etiket maliyete katkı yapmaz.
var (
	FriesPrices = map[string]decimal.Decimal{
		"small":  decimal.RequireFromString("2.50"),
		"medium": decimal.RequireFromString("3.00"),
		"large":  decimal.RequireFromString("3.50"),
	}

	DrinkPrices = map[string]decimal.Decimal{
		"small":  decimal.RequireFromString("1.50"),
		"medium": decimal.RequireFromString("2.00"),
		"large":  decimal.RequireFromString("2.50"),
	}
)

// AddOnCost - Seçilen patates ve içecek boylarının toplam sabit maliyeti
func AddOnCost(friesSize, drinkSize string) decimal.Decimal {
	total := decimal.Zero
	if price, ok := FriesPrices[friesSize]; ok {
		total = total.Add(price)
	}
	if price, ok := DrinkPrices[drinkSize]; ok {
		total = total.Add(price)
	}
	return total
}
