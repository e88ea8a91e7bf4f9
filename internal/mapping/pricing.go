package mapping

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MarginPercent - Satış fiyatı üzerinden brüt marj yüzdesi.
// Fiyat sıfır veya negatifse marj 0 kabul edilir.
func MarginPercent(price, cost decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(price).Mul(hundred)
}

// MarkupPercent - Paket servis fiyatının restoran fiyatına göre yüzde farkı.
func MarkupPercent(localPrice, deliveryPrice decimal.Decimal) decimal.Decimal {
	if !localPrice.IsPositive() {
		return decimal.Zero
	}
	return deliveryPrice.Sub(localPrice).Div(localPrice).Mul(hundred)
}
