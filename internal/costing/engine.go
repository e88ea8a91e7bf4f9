package costing

import (
	"errors"
	"fmt"
	"log"

	"menucost-backend/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("ürün bulunamadı")
	ErrBaseNotFound    = errors.New("menünün baz sandviçi bulunamadı")
)

// Tolerance - Maliyet karşılaştırma toleransı. Bu eşiğin altındaki farklar
// yuvarlama gürültüsü sayılır ve "değişti" olarak raporlanmaz.
var Tolerance = decimal.RequireFromString("0.001")

var hundred = decimal.NewFromInt(100)

// Repository - Maliyet motorunun veri erişim sözleşmesi. İlişki gezinmesi yok;
// her şey açık kimlik anahtarıyla okunur. Motor global DB'ye dokunmaz,
// transaction sınırını çağıran belirler.
type Repository interface {
	ProductByID(id uint) (*models.Product, error)
	// IngredientLines, ürünün malzeme satırlarını Ingredient kayıtlarıyla birlikte döner.
	IngredientLines(productID uint) ([]models.ProductIngredient, error)
	// ActiveProductsByType, deterministik sırada (id artan) aktif ürünleri döner.
	ActiveProductsByType(productType models.ProductType) ([]models.Product, error)
	// ActiveMenusByBase, baz sandviçi verilen aktif menüleri döner.
	ActiveMenusByBase(sandwichID uint) ([]models.Product, error)
	// SaveCostFields yalnızca total_cost, gross_profit ve gross_profit_percent yazar.
	SaveCostFields(p *models.Product) error
}

// CostChange - Recompute raporunun tek satırı
type CostChange struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	OldCost     decimal.Decimal `json:"old_cost"`
	NewCost     decimal.Decimal `json:"new_cost"`
}

// Engine - Maliyet motoru. Tüm para aritmetiği decimal; float para hesabına girmez.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// RecalculateCost - Ürünün maliyetini türüne göre yeniden hesaplar, ürün
// üzerindeki TotalCost ve kâr alanlarını günceller ve yeni maliyeti döner.
// Kalıcılaştırma çağıranın işi (SaveCostFields).
func (e *Engine) RecalculateCost(p *models.Product) (decimal.Decimal, error) {
	var total decimal.Decimal
	var err error

	if p.ProductType == models.ProductTypeMenu {
		total, err = e.menuCost(p)
	} else {
		total, err = e.leafCost(p)
	}
	if err != nil {
		return decimal.Zero, err
	}

	p.TotalCost = total
	applyProfit(p)
	return total, nil
}

// leafCost - Malzeme satırlarının ağırlıklı toplamı: Σ(miktar × birim fiyat).
// Satırsız ürün 0 maliyetlidir, hata değil.
func (e *Engine) leafCost(p *models.Product) (decimal.Decimal, error) {
	lines, err := e.repo.IngredientLines(p.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malzeme satırları okunamadı (ürün %d): %w", p.ID, err)
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Quantity.Mul(line.Ingredient.PricePerUnit))
	}
	return total, nil
}

// menuCost - Baz sandviçin kayıtlı maliyeti + sabit fiyatlı eklentiler.
// Tek seviye yayılım: baz ürünün maliyeti olduğu gibi okunur, burada tazelenmez.
// Tutarlılık RecomputeAll'daki sıralama ile sağlanır (önce sandviçler, sonra menüler).
func (e *Engine) menuCost(p *models.Product) (decimal.Decimal, error) {
	total := decimal.Zero

	if p.SandwichID != nil {
		base, err := e.repo.ProductByID(*p.SandwichID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return decimal.Zero, fmt.Errorf("%w: sandwich_id=%d", ErrBaseNotFound, *p.SandwichID)
			}
			return decimal.Zero, fmt.Errorf("baz sandviç okunamadı (id %d): %w", *p.SandwichID, err)
		}
		total = total.Add(base.TotalCost)
	}

	return total.Add(AddOnCost(p.FriesSize, p.DrinkSize)), nil
}

// applyProfit - Satış fiyatından brüt kâr ve kâr yüzdesini türetir.
// Satış fiyatı yoksa kâr alanları nil kalır: "tek başına satılmıyor" anlamına
// gelir, 0 yazılmaz. Satış fiyatı 0 ise yüzde 0 tanımlanır (sıfıra bölme koruması).
func applyProfit(p *models.Product) {
	if p.SellingPrice == nil {
		p.GrossProfit = nil
		p.GrossProfitPercent = nil
		return
	}

	sellingPrice := *p.SellingPrice
	grossProfit := sellingPrice.Sub(p.TotalCost)
	p.GrossProfit = &grossProfit

	percent := decimal.Zero
	if sellingPrice.IsPositive() {
		percent = grossProfit.Div(sellingPrice).Mul(hundred)
	}
	p.GrossProfitPercent = &percent
}

// FindDependentMenus - Baz sandviçi verilen ürün olan aktif menüler
func (e *Engine) FindDependentMenus(productID uint) ([]models.Product, error) {
	return e.repo.ActiveMenusByBase(productID)
}

// RefreshDependentMenus - Bir sandviçin maliyeti değiştikten sonra ona bağlı
// menüleri yeniden hesaplar ve toleransın üzerinde değişenleri kalıcılaştırıp raporlar.
func (e *Engine) RefreshDependentMenus(p *models.Product) ([]CostChange, error) {
	menus, err := e.repo.ActiveMenusByBase(p.ID)
	if err != nil {
		return nil, fmt.Errorf("bağımlı menüler okunamadı (ürün %d): %w", p.ID, err)
	}

	var changes []CostChange
	for i := range menus {
		menu := &menus[i]
		oldCost := menu.TotalCost

		if _, err := e.RecalculateCost(menu); err != nil {
			return nil, err
		}
		if !costChanged(oldCost, menu.TotalCost) {
			continue
		}
		if err := e.repo.SaveCostFields(menu); err != nil {
			return nil, fmt.Errorf("menü maliyeti kaydedilemedi (%s): %w", menu.ProductCode, err)
		}
		changes = append(changes, costChange(menu, oldCost))
	}
	return changes, nil
}

// RecomputeAll - Tüm katalogu yeniden hesaplar. Sıra önemli: menü maliyeti baz
// sandviçin güncel maliyetine bağlı olduğundan önce sandviçler, sonra menüler
// işlenir. Yalnızca gerçekten değişen maliyetler yazılır; araya veri değişikliği
// girmeden ikinci kez çalıştırmak 0 değişiklik üretir (idempotent).
//
// Depolama hatası tüm batch'i düşürür (transaction sınırını saran açar, bkz.
// RecomputeAllTx). Baz sandviçi silinmiş bir menü ise tek başına atlanır ve
// loglanır; bir bozuk satır katalogun geri kalanının tutarlılığını engellemez.
func (e *Engine) RecomputeAll() (int, []CostChange, error) {
	var report []CostChange

	sandwiches, err := e.repo.ActiveProductsByType(models.ProductTypeSandwich)
	if err != nil {
		return 0, nil, fmt.Errorf("sandviçler listelenemedi: %w", err)
	}
	for i := range sandwiches {
		change, err := e.recomputeOne(&sandwiches[i])
		if err != nil {
			return 0, nil, err
		}
		if change != nil {
			report = append(report, *change)
		}
	}

	menus, err := e.repo.ActiveProductsByType(models.ProductTypeMenu)
	if err != nil {
		return 0, nil, fmt.Errorf("menüler listelenemedi: %w", err)
	}
	for i := range menus {
		change, err := e.recomputeOne(&menus[i])
		if err != nil {
			if errors.Is(err, ErrBaseNotFound) {
				// Bozuk satır: atla, logla, batch devam etsin
				log.Printf("[WARN] recompute: menü atlandı (%s): %v", menus[i].ProductCode, err)
				continue
			}
			return 0, nil, err
		}
		if change != nil {
			report = append(report, *change)
		}
	}

	return len(report), report, nil
}

// recomputeOne - Tek ürünü yeniden hesaplar; tolerans üzerinde değiştiyse yazar
func (e *Engine) recomputeOne(p *models.Product) (*CostChange, error) {
	oldCost := p.TotalCost

	if _, err := e.RecalculateCost(p); err != nil {
		return nil, err
	}
	if !costChanged(oldCost, p.TotalCost) {
		return nil, nil
	}
	if err := e.repo.SaveCostFields(p); err != nil {
		return nil, fmt.Errorf("maliyet kaydedilemedi (%s): %w", p.ProductCode, err)
	}

	change := costChange(p, oldCost)
	return &change, nil
}

func costChanged(oldCost, newCost decimal.Decimal) bool {
	return newCost.Sub(oldCost).Abs().GreaterThan(Tolerance)
}

func costChange(p *models.Product, oldCost decimal.Decimal) CostChange {
	return CostChange{
		ProductID:   p.ID,
		ProductName: p.Name,
		ProductCode: p.ProductCode,
		OldCost:     oldCost,
		NewCost:     p.TotalCost,
	}
}
