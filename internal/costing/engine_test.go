package costing

import (
	"errors"
	"sort"
	"testing"

	"menucost-backend/internal/models"

	"github.com/shopspring/decimal"
)

// memRepository - Motor testleri için bellek içi Repository.
// SaveCostFields store'a geri yazar, böylece idempotenlik gerçekçi test edilir.
type memRepository struct {
	products map[uint]*models.Product
	lines    map[uint][]models.ProductIngredient
	saveErr  error
	saves    int
}

func newMemRepository() *memRepository {
	return &memRepository{
		products: make(map[uint]*models.Product),
		lines:    make(map[uint][]models.ProductIngredient),
	}
}

func (r *memRepository) ProductByID(id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepository) IngredientLines(productID uint) ([]models.ProductIngredient, error) {
	return r.lines[productID], nil
}

func (r *memRepository) ActiveProductsByType(productType models.ProductType) ([]models.Product, error) {
	var ids []uint
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.Product
	for _, id := range ids {
		p := r.products[id]
		if p.IsActive && p.ProductType == productType {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memRepository) ActiveMenusByBase(sandwichID uint) ([]models.Product, error) {
	menus, err := r.ActiveProductsByType(models.ProductTypeMenu)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	for _, m := range menus {
		if m.SandwichID != nil && *m.SandwichID == sandwichID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepository) SaveCostFields(p *models.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.products[p.ID]
	if !ok {
		return ErrProductNotFound
	}
	stored.TotalCost = p.TotalCost
	stored.GrossProfit = p.GrossProfit
	stored.GrossProfitPercent = p.GrossProfitPercent
	r.saves++
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func uintPtr(v uint) *uint {
	return &v
}

// Temel senaryo: malzeme A 1.50/birim, sandviç P'de 2 birim A,
// satış fiyatı 5.00; menü M = P + large patates (3.50) + medium içecek (2.00).
func newScenario() *memRepository {
	repo := newMemRepository()

	repo.products[1] = &models.Product{
		ID: 1, Name: "Classic Burger", ProductCode: "SW_1_1",
		ProductType: models.ProductTypeSandwich,
		SellingPrice: decPtr("5.00"), IsActive: true,
	}
	repo.lines[1] = []models.ProductIngredient{
		{ProductID: 1, IngredientID: 1, Quantity: dec("2"),
			Ingredient: models.Ingredient{ID: 1, Name: "Beef Patty", PricePerUnit: dec("1.50")}},
	}

	repo.products[2] = &models.Product{
		ID: 2, Name: "Classic Burger Menu", ProductCode: "MN_1_1",
		ProductType: models.ProductTypeMenu,
		SandwichID:  uintPtr(1), FriesSize: "large", DrinkSize: "medium",
		IsActive: true,
	}
	return repo
}

func TestRecalculateCost_Sandwich(t *testing.T) {
	tests := []struct {
		name         string
		lines        []models.ProductIngredient
		sellingPrice *decimal.Decimal
		wantCost     string
		wantProfit   *string
		wantPercent  *string
	}{
		{
			name: "two units at 1.50 with selling price",
			lines: []models.ProductIngredient{
				{Quantity: dec("2"), Ingredient: models.Ingredient{PricePerUnit: dec("1.50")}},
			},
			sellingPrice: decPtr("5.00"),
			wantCost:     "3.00",
			wantProfit:   strPtr("2.00"),
			wantPercent:  strPtr("40"),
		},
		{
			name: "multiple ingredient lines",
			lines: []models.ProductIngredient{
				{Quantity: dec("1"), Ingredient: models.Ingredient{PricePerUnit: dec("0.45")}},
				{Quantity: dec("2"), Ingredient: models.Ingredient{PricePerUnit: dec("0.30")}},
				{Quantity: dec("0.02"), Ingredient: models.Ingredient{PricePerUnit: dec("12.50")}},
			},
			wantCost: "1.30",
		},
		{
			name:     "zero ingredient lines is cost 0, not an error",
			lines:    nil,
			wantCost: "0",
		},
		{
			name: "decimal quantities must not drift",
			lines: []models.ProductIngredient{
				{Quantity: dec("0.333"), Ingredient: models.Ingredient{PricePerUnit: dec("3.00")}},
			},
			wantCost: "0.999",
		},
		{
			name: "selling price unset leaves profit unset",
			lines: []models.ProductIngredient{
				{Quantity: dec("1"), Ingredient: models.Ingredient{PricePerUnit: dec("2.00")}},
			},
			sellingPrice: nil,
			wantCost:     "2.00",
		},
		{
			name: "selling price zero gives percent 0 without division panic",
			lines: []models.ProductIngredient{
				{Quantity: dec("1"), Ingredient: models.Ingredient{PricePerUnit: dec("2.00")}},
			},
			sellingPrice: decPtr("0"),
			wantCost:     "2.00",
			wantProfit:   strPtr("-2.00"),
			wantPercent:  strPtr("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepository()
			repo.products[1] = &models.Product{
				ID: 1, ProductType: models.ProductTypeSandwich,
				SellingPrice: tt.sellingPrice, IsActive: true,
			}
			repo.lines[1] = tt.lines

			p := repo.products[1]
			got, err := NewEngine(repo).RecalculateCost(p)
			if err != nil {
				t.Fatalf("RecalculateCost() error = %v", err)
			}
			if !got.Equal(dec(tt.wantCost)) {
				t.Errorf("cost = %s, want %s", got, tt.wantCost)
			}
			if !p.TotalCost.Equal(dec(tt.wantCost)) {
				t.Errorf("stored TotalCost = %s, want %s", p.TotalCost, tt.wantCost)
			}
			checkOptional(t, "GrossProfit", p.GrossProfit, tt.wantProfit)
			checkOptional(t, "GrossProfitPercent", p.GrossProfitPercent, tt.wantPercent)
		})
	}
}

func TestRecalculateCost_Menu(t *testing.T) {
	tests := []struct {
		name      string
		menu      models.Product
		baseCost  string
		wantCost  string
		wantError error
	}{
		{
			name: "base 3.00 plus large fries and medium drink",
			menu: models.Product{ID: 2, ProductType: models.ProductTypeMenu,
				SandwichID: uintPtr(1), FriesSize: "large", DrinkSize: "medium"},
			baseCost: "3.00",
			wantCost: "8.50",
		},
		{
			name: "menu without base product is add-ons only",
			menu: models.Product{ID: 2, ProductType: models.ProductTypeMenu,
				FriesSize: "small", DrinkSize: "small"},
			wantCost: "4.00",
		},
		{
			name: "unknown size labels contribute nothing",
			menu: models.Product{ID: 2, ProductType: models.ProductTypeMenu,
				SandwichID: uintPtr(1), FriesSize: "jumbo", DrinkSize: ""},
			baseCost: "3.00",
			wantCost: "3.00",
		},
		{
			name: "missing base product fails loudly",
			menu: models.Product{ID: 2, ProductType: models.ProductTypeMenu,
				SandwichID: uintPtr(99)},
			baseCost:  "3.00",
			wantError: ErrBaseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepository()
			baseCost := decimal.Zero
			if tt.baseCost != "" {
				baseCost = dec(tt.baseCost)
			}
			repo.products[1] = &models.Product{
				ID: 1, ProductType: models.ProductTypeSandwich,
				TotalCost: baseCost, IsActive: true,
			}

			menu := tt.menu
			got, err := NewEngine(repo).RecalculateCost(&menu)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("RecalculateCost() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecalculateCost() error = %v", err)
			}
			if !got.Equal(dec(tt.wantCost)) {
				t.Errorf("cost = %s, want %s", got, tt.wantCost)
			}
		})
	}
}

func TestRefreshDependentMenus(t *testing.T) {
	repo := newScenario()

	// Önce katalog tutarlı hale gelsin
	if _, _, err := NewEngine(repo).RecomputeAll(); err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}

	// Baz sandviçin maliyeti tam X=1.00 artarsa menünün maliyeti de tam X artmalı
	sandwich := repo.products[1]
	oldMenuCost := repo.products[2].TotalCost
	sandwich.TotalCost = sandwich.TotalCost.Add(dec("1.00"))

	changes, err := NewEngine(repo).RefreshDependentMenus(sandwich)
	if err != nil {
		t.Fatalf("RefreshDependentMenus() error = %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	wantCost := oldMenuCost.Add(dec("1.00"))
	if !changes[0].NewCost.Equal(wantCost) {
		t.Errorf("menu cost = %s, want %s", changes[0].NewCost, wantCost)
	}
	if !repo.products[2].TotalCost.Equal(wantCost) {
		t.Errorf("stored menu cost = %s, want %s", repo.products[2].TotalCost, wantCost)
	}
}

func TestFindDependentMenus(t *testing.T) {
	repo := newScenario()

	// Pasif menü bağımlı sayılmaz
	repo.products[3] = &models.Product{
		ID: 3, ProductType: models.ProductTypeMenu,
		SandwichID: uintPtr(1), IsActive: false,
	}

	menus, err := NewEngine(repo).FindDependentMenus(1)
	if err != nil {
		t.Fatalf("FindDependentMenus() error = %v", err)
	}
	if len(menus) != 1 || menus[0].ID != 2 {
		t.Fatalf("menus = %+v, want only product 2", menus)
	}
}

func TestRecomputeAll_Scenario(t *testing.T) {
	repo := newScenario()
	engine := NewEngine(repo)

	// İlk geçiş: P = 2 × 1.50 = 3.00, M = 3.00 + 3.50 + 2.00 = 8.50
	count, report, err := engine.RecomputeAll()
	if err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if !repo.products[1].TotalCost.Equal(dec("3.00")) {
		t.Errorf("sandwich cost = %s, want 3.00", repo.products[1].TotalCost)
	}
	if !repo.products[2].TotalCost.Equal(dec("8.50")) {
		t.Errorf("menu cost = %s, want 8.50", repo.products[2].TotalCost)
	}

	// Malzeme fiyatı 1.50 -> 2.00: P 4.00'e, M 9.50'ye çıkmalı,
	// raporda sandviç menüden önce gelmeli.
	repo.lines[1][0].Ingredient.PricePerUnit = dec("2.00")

	count, report, err = engine.RecomputeAll()
	if err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}
	if count != 2 || len(report) != 2 {
		t.Fatalf("count = %d, report = %d, want 2/2", count, len(report))
	}
	if report[0].ProductID != 1 || report[1].ProductID != 2 {
		t.Fatalf("report order = [%d %d], sandviç menüden önce hesaplanmalı", report[0].ProductID, report[1].ProductID)
	}
	if !report[0].OldCost.Equal(dec("3.00")) || !report[0].NewCost.Equal(dec("4.00")) {
		t.Errorf("sandwich change = %s -> %s, want 3.00 -> 4.00", report[0].OldCost, report[0].NewCost)
	}
	if !report[1].OldCost.Equal(dec("8.50")) || !report[1].NewCost.Equal(dec("9.50")) {
		t.Errorf("menu change = %s -> %s, want 8.50 -> 9.50", report[1].OldCost, report[1].NewCost)
	}
}

func TestRecomputeAll_Idempotent(t *testing.T) {
	repo := newScenario()
	engine := NewEngine(repo)

	if _, _, err := engine.RecomputeAll(); err != nil {
		t.Fatalf("first RecomputeAll() error = %v", err)
	}

	count, report, err := engine.RecomputeAll()
	if err != nil {
		t.Fatalf("second RecomputeAll() error = %v", err)
	}
	if count != 0 || len(report) != 0 {
		t.Errorf("second run count = %d, report = %d, want 0/0", count, len(report))
	}
}

func TestRecomputeAll_SkipsMenuWithMissingBase(t *testing.T) {
	repo := newScenario()

	// Baz sandviçi olmayan bozuk menü: tek başına atlanır, batch sürer
	repo.products[3] = &models.Product{
		ID: 3, Name: "Orphan Menu", ProductCode: "MN_1_9",
		ProductType: models.ProductTypeMenu,
		SandwichID:  uintPtr(99), FriesSize: "small", IsActive: true,
	}

	count, _, err := NewEngine(repo).RecomputeAll()
	if err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 (orphan menu skipped)", count)
	}
	if !repo.products[3].TotalCost.Equal(decimal.Zero) {
		t.Errorf("orphan menu cost = %s, want untouched 0", repo.products[3].TotalCost)
	}
}

func TestRecomputeAll_SaveFailurePropagates(t *testing.T) {
	repo := newScenario()
	repo.saveErr = errors.New("write failed")

	_, _, err := NewEngine(repo).RecomputeAll()
	if err == nil {
		t.Fatal("RecomputeAll() error = nil, want persistence error")
	}
	if !errors.Is(err, repo.saveErr) {
		t.Errorf("error = %v, want wrapped %v", err, repo.saveErr)
	}
}

func TestAddOnCost(t *testing.T) {
	tests := []struct {
		fries, drink string
		want         string
	}{
		{"large", "medium", "5.50"},
		{"small", "small", "4.00"},
		{"", "", "0"},
		{"jumbo", "xl", "0"},
		{"medium", "", "3.00"},
	}

	for _, tt := range tests {
		got := AddOnCost(tt.fries, tt.drink)
		if !got.Equal(dec(tt.want)) {
			t.Errorf("AddOnCost(%q, %q) = %s, want %s", tt.fries, tt.drink, got, tt.want)
		}
	}
}

func strPtr(s string) *string {
	return &s
}

func checkOptional(t *testing.T, field string, got *decimal.Decimal, want *string) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Errorf("%s = %s, want unset", field, got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s = unset, want %s", field, *want)
		return
	}
	if !got.Equal(dec(*want)) {
		t.Errorf("%s = %s, want %s", field, got, *want)
	}
}
