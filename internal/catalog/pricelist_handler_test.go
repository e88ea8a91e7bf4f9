package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

// Batch'in tek satırı bile geçersizse hiçbir fiyat yazılmamalı ve audit izine
// hiçbir kayıt düşmemeli; denetim bu yüzden yazma başlamadan önce tüm
// satırları gezer.
func TestValidatePriceUpdates(t *testing.T) {
	tests := []struct {
		name    string
		updates []ApplyPriceUpdate
		wantErr bool
	}{
		{
			name: "valid batch",
			updates: []ApplyPriceUpdate{
				{IngredientID: 1, NewPrice: decimal.RequireFromString("2.50")},
				{IngredientID: 2, NewPrice: decimal.RequireFromString("0")},
			},
		},
		{
			name: "negative price in later row rejects whole batch",
			updates: []ApplyPriceUpdate{
				{IngredientID: 1, NewPrice: decimal.RequireFromString("2.50")},
				{IngredientID: 2, NewPrice: decimal.RequireFromString("-0.01")},
			},
			wantErr: true,
		},
		{
			name: "zero ingredient id",
			updates: []ApplyPriceUpdate{
				{IngredientID: 0, NewPrice: decimal.RequireFromString("1.00")},
			},
			wantErr: true,
		},
		{
			name:    "empty batch",
			updates: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePriceUpdates(tt.updates)
			if tt.wantErr && err == nil {
				t.Fatal("validatePriceUpdates hata beklenirken nil döndü")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("validatePriceUpdates beklenmeyen hata: %v", err)
			}
		})
	}
}
