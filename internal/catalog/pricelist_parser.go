package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"menucost-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ParsedPriceRow: Tedarikçi fiyat listesinden çıkarılan tek satır
type ParsedPriceRow struct {
	WrinCode  string          `json:"wrin_code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	// Sistemde eşleşen malzeme (nil ise eşleşme yok)
	MatchedIngredientID   *uint            `json:"matched_ingredient_id"`
	MatchedIngredientName string           `json:"matched_ingredient_name,omitempty"`
	CurrentPrice          *decimal.Decimal `json:"current_price,omitempty"`
}

// ParsePriceListResponse: Fiyat listesi parse sonucu
type ParsePriceListResponse struct {
	Rows     []ParsedPriceRow `json:"rows"`
	ListDate string           `json:"list_date,omitempty"`
	Supplier string           `json:"supplier,omitempty"`
}

var wrinPattern = regexp.MustCompile(`^[A-Z0-9]{2,}[-_]?[0-9]*$`)

// parsePriceDecimal: "1.234,56" ve "1234.56" biçimlerinin ikisini de kabul eder
func parsePriceDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "TL")
	s = strings.TrimSuffix(s, "₺")
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		// Türkçe biçim: binlik nokta, ondalık virgül
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// normalizeName: Küçük harfe çevirip Türkçe karakterleri sadeleştirir
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"ı", "i", "ğ", "g", "ü", "u", "ş", "s", "ö", "o", "ç", "c",
	)
	return replacer.Replace(s)
}

func extractListDate(text string) string {
	re := regexp.MustCompile(`(?:Liste Tarihi|Tarih):\s*(\d{2}\.\d{2}\.\d{4})`)
	if matches := re.FindStringSubmatch(text); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

func extractSupplier(text string) string {
	re := regexp.MustCompile(`Tedarikçi:\s*(.+)`)
	if matches := re.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// parsePriceTable: Yapıştırılan listeden satırları çıkarır. İki biçim
// desteklenir: pipe ile ayrılmış tablo (| WRIN | Ad | Fiyat |) ve
// "WRIN  Ad  Fiyat" biçiminde boşlukla hizalanmış satırlar.
func parsePriceTable(text string) ([]ParsedPriceRow, error) {
	var rows []ParsedPriceRow

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		// Başlık ve dipnot satırlarını atla
		if strings.Contains(line, "WRIN") && (strings.Contains(line, "Fiyat") || strings.Contains(line, "Ad")) {
			continue
		}
		if strings.Contains(line, "Toplam:") || strings.HasPrefix(line, "Tedarikçi:") ||
			strings.HasPrefix(line, "Liste Tarihi:") || strings.HasPrefix(line, "Tarih:") {
			continue
		}

		var code, name, priceStr string

		if strings.Contains(line, "|") {
			parts := strings.Split(line, "|")
			fields := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					fields = append(fields, trimmed)
				}
			}
			if len(fields) < 3 {
				continue
			}
			code, name, priceStr = fields[0], fields[1], fields[len(fields)-1]
		} else {
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			code = fields[0]
			priceStr = fields[len(fields)-1]
			name = strings.Join(fields[1:len(fields)-1], " ")
		}

		if !wrinPattern.MatchString(code) {
			continue
		}
		price, err := parsePriceDecimal(priceStr)
		if err != nil || price.IsNegative() {
			continue
		}

		rows = append(rows, ParsedPriceRow{
			WrinCode:  code,
			Name:      name,
			UnitPrice: price,
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("fiyat satırı bulunamadı")
	}
	return rows, nil
}

// matchIngredient: Satırı sistemdeki malzemelerle eşleştirir. Önce WRIN
// koduna bakılır, bulunamazsa normalize edilmiş ada göre denenir.
func matchIngredient(db *gorm.DB, row *ParsedPriceRow) error {
	var ingredient models.Ingredient
	if err := db.Where("wrin_code = ?", row.WrinCode).First(&ingredient).Error; err == nil {
		row.MatchedIngredientID = &ingredient.ID
		row.MatchedIngredientName = ingredient.Name
		row.CurrentPrice = &ingredient.PricePerUnit
		return nil
	}

	if row.Name == "" {
		return nil
	}

	var ingredients []models.Ingredient
	if err := db.Where("is_active = ?", true).Find(&ingredients).Error; err != nil {
		return err
	}

	target := normalizeName(row.Name)
	var best *models.Ingredient
	bestScore := 0
	for i := range ingredients {
		candidate := normalizeName(ingredients[i].Name)
		if candidate == target {
			best = &ingredients[i]
			break
		}
		if strings.Contains(target, candidate) || strings.Contains(candidate, target) {
			if len(candidate) > bestScore {
				bestScore = len(candidate)
				best = &ingredients[i]
			}
		}
	}
	// Çok kısa kısmi eşleşmeler güvenilmez
	if best != nil && (bestScore == 0 || bestScore >= 5) {
		row.MatchedIngredientID = &best.ID
		row.MatchedIngredientName = best.Name
		row.CurrentPrice = &best.PricePerUnit
	}
	return nil
}

// ParsePriceList: Yapıştırılan tedarikçi fiyat listesini parse eder ve her
// satırı sistemdeki malzemelerle eşleştirir. Fiyat GÜNCELLEMEZ; sonuç
// önizleme olarak döner, onay ayrı uçtan gelir.
func ParsePriceList(db *gorm.DB, text string) (*ParsePriceListResponse, error) {
	rows, err := parsePriceTable(text)
	if err != nil {
		return nil, fmt.Errorf("liste parse edilemedi: %w", err)
	}

	for i := range rows {
		if err := matchIngredient(db, &rows[i]); err != nil {
			return nil, err
		}
	}

	return &ParsePriceListResponse{
		Rows:     rows,
		ListDate: extractListDate(text),
		Supplier: extractSupplier(text),
	}, nil
}
