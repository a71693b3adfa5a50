package ledger

import (
	"errors"
	"testing"

	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/models"
)

func TestParseCalculatorBlock(t *testing.T) {
	block := []string{
		"Cost Price",
		"Cost",
		"£15.00",
		"Sale Price",
		"Sale",
		"£ 27.99",
		"Profit",
		"£4.50",
		"ROI 30%",
		"Breakeven £22.10",
	}

	got, err := ParseCalculatorBlock(block)
	if err != nil {
		t.Fatal(err)
	}
	want := models.CostBasis{Price: "27.99", Cost: "15.00", Profit: "4.50"}
	if got != want {
		t.Errorf("got %+v; want %+v", got, want)
	}

	if _, err := ParseCalculatorBlock(block[:7]); !apperr.Is(err, apperr.Parse) {
		t.Errorf("short block error = %v; want parse error", err)
	}
}

func TestStripCurrency(t *testing.T) {
	tests := map[string]string{
		"£12.50":       "12.50",
		" R$ 1.234,56": "1.234,56",
		"-£3.00":       "-£3.00",
		"£-3.00":       "-3.00",
		"sem valor":    "sem valor",
	}
	for in, want := range tests {
		if got := stripCurrency(in); got != want {
			t.Errorf("stripCurrency(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestNewProductAndAdd(t *testing.T) {
	basis := models.CostBasis{Price: "10.00", Cost: "5.00", Profit: "2.00"}

	p, err := NewProduct(" https://www.amazon.co.uk/dp/B0C1234567 ", basis, 11, "2026-10-18")
	if err != nil {
		t.Fatal(err)
	}
	if !p.MonitorEnabled || p.URL != "https://www.amazon.co.uk/dp/B0C1234567" || p.LookupURL == "" {
		t.Errorf("product = %+v", p)
	}

	products, err := Add(sampleProducts(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 || products[2].URL != p.URL {
		t.Errorf("new product not appended: %+v", products)
	}
	if _, err := Add(products, p); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate url error = %v", err)
	}

	if _, err := NewProduct("", basis, 0, ""); !apperr.Is(err, apperr.Parse) {
		t.Errorf("empty url error = %v", err)
	}
	if _, err := NewProduct("https://x.test/p", models.CostBasis{Price: "abc", Cost: "1", Profit: "1"}, 0, ""); err == nil {
		t.Error("invalid basis should be rejected")
	}
}
