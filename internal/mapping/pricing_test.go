package mapping

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMarginPercent(t *testing.T) {
	tests := []struct {
		name  string
		price string
		cost  string
		want  string
	}{
		{name: "normal margin", price: "10.00", cost: "4.00", want: "60"},
		{name: "zero cost", price: "5.00", cost: "0", want: "100"},
		{name: "negative margin", price: "4.00", cost: "5.00", want: "-25"},
		{name: "zero price", price: "0", cost: "3.00", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginPercent(dec(tt.price), dec(tt.cost))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("MarginPercent(%s, %s) = %s, beklenen %s", tt.price, tt.cost, got, tt.want)
			}
		})
	}
}

func TestMarkupPercent(t *testing.T) {
	tests := []struct {
		name     string
		local    string
		delivery string
		want     string
	}{
		{name: "ten percent", local: "10.00", delivery: "11.00", want: "10"},
		{name: "same price", local: "8.00", delivery: "8.00", want: "0"},
		{name: "zero local", local: "0", delivery: "5.00", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkupPercent(dec(tt.local), dec(tt.delivery))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("MarkupPercent(%s, %s) = %s, beklenen %s", tt.local, tt.delivery, got, tt.want)
			}
		})
	}
}
