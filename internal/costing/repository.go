package costing

import (
	"errors"

	"menucost-backend/internal/models"

	"gorm.io/gorm"
)

// gormRepository - Repository'nin GORM üzerinde çalışan hali.
// Verilen *gorm.DB bir transaction da olabilir; motor fark etmez.
type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ProductByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) IngredientLines(productID uint) ([]models.ProductIngredient, error) {
	var lines []models.ProductIngredient
	err := r.db.Preload("Ingredient").
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&lines).Error
	return lines, err
}

func (r *gormRepository) ActiveProductsByType(productType models.ProductType) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("product_type = ? AND is_active = ?", productType, true).
		Order("id asc").
		Find(&products).Error
	return products, err
}

func (r *gormRepository) ActiveMenusByBase(sandwichID uint) ([]models.Product, error) {
	var menus []models.Product
	err := r.db.Where("product_type = ? AND is_active = ? AND sandwich_id = ?",
		models.ProductTypeMenu, true, sandwichID).
		Order("id asc").
		Find(&menus).Error
	return menus, err
}

func (r *gormRepository) SaveCostFields(p *models.Product) error {
	// Pointer alanlar nil ise NULL yazılmalı; bu yüzden map ile Updates
	return r.db.Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"total_cost":           p.TotalCost,
			"gross_profit":         p.GrossProfit,
			"gross_profit_percent": p.GrossProfitPercent,
		}).Error
}

// RecomputeAllTx - Tüm batch'i tek transaction içinde çalıştırır.
// Herhangi bir yazma hatasında hiçbir şey uygulanmaz (tam rollback).
func RecomputeAllTx(db *gorm.DB) (int, []CostChange, error) {
	var count int
	var report []CostChange

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		count, report, err = NewEngine(NewRepository(tx)).RecomputeAll()
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return count, report, nil
}
