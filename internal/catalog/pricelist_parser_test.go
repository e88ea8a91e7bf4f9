package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePriceDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "turkish format", input: "1.234,56", want: "1234.56"},
		{name: "turkish with TL suffix", input: "140,00 TL", want: "140"},
		{name: "plain decimal", input: "12.5", want: "12.5"},
		{name: "integer", input: "7", want: "7"},
		{name: "comma decimal", input: "0,35", want: "0.35"},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePriceDecimal(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePriceDecimal(%q) hata beklenirken %s döndü", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePriceDecimal(%q) hata: %v", tt.input, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parsePriceDecimal(%q) = %s, beklenen %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePriceTable_PipeFormat(t *testing.T) {
	text := `Tedarikçi: HAVI Lojistik
Liste Tarihi: 15.08.2026

| WRIN      | Ad                  | Fiyat    |
| BF0001    | Dana Köfte 45g      | 4,25     |
| BN0002    | Susamlı Ekmek       | 1.250,00 |
| CH0003    | Cheddar Dilim       | 0,85     |
Toplam: 3 kalem`

	rows, err := parsePriceTable(text)
	if err != nil {
		t.Fatalf("parsePriceTable hata: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("satır sayısı = %d, beklenen 3", len(rows))
	}

	if rows[0].WrinCode != "BF0001" || rows[0].Name != "Dana Köfte 45g" {
		t.Errorf("ilk satır yanlış: %+v", rows[0])
	}
	if !rows[0].UnitPrice.Equal(decimal.RequireFromString("4.25")) {
		t.Errorf("ilk satır fiyatı = %s, beklenen 4.25", rows[0].UnitPrice)
	}
	if !rows[1].UnitPrice.Equal(decimal.RequireFromString("1250")) {
		t.Errorf("binlik ayraçlı fiyat = %s, beklenen 1250", rows[1].UnitPrice)
	}
}

func TestParsePriceTable_WhitespaceFormat(t *testing.T) {
	text := `WRIN  Ad  Fiyat
BF0001  Dana Köfte  4,25
XX  kısa kod satırı atlanmalı değil ama fiyatı bozuk  abc
BN0002  Susamlı Ekmek  1,10`

	rows, err := parsePriceTable(text)
	if err != nil {
		t.Fatalf("parsePriceTable hata: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("satır sayısı = %d, beklenen 2 (bozuk fiyat atlanmalı)", len(rows))
	}
	if rows[1].WrinCode != "BN0002" {
		t.Errorf("ikinci satır kodu = %q, beklenen BN0002", rows[1].WrinCode)
	}
}

func TestParsePriceTable_Empty(t *testing.T) {
	if _, err := parsePriceTable("sadece açıklama metni\nhiç satır yok"); err == nil {
		t.Fatal("satırsız metin için hata beklenirdi")
	}
}

func TestExtractListMetadata(t *testing.T) {
	text := "Tedarikçi: HAVI Lojistik\nListe Tarihi: 15.08.2026\n| BF0001 | Köfte | 4,25 |"

	if got := extractListDate(text); got != "15.08.2026" {
		t.Errorf("extractListDate = %q, beklenen 15.08.2026", got)
	}
	if got := extractSupplier(text); got != "HAVI Lojistik" {
		t.Errorf("extractSupplier = %q, beklenen HAVI Lojistik", got)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := normalizeName("Susamlı EKMEK"); got != "susamli ekmek" {
		t.Errorf("normalizeName = %q, beklenen %q", got, "susamli ekmek")
	}
}
