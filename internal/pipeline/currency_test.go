package pipeline

import (
	"testing"

	"reorder-forecast/internal/domain"
)

func usdConfig() *domain.StoreConfig {
	return &domain.StoreConfig{
		StoreID:      "store1",
		BaseCurrency: "USD",
		ExchangeRates: map[string]float64{
			"EUR": 1.10,
		},
	}
}

func TestCurrencyStage_KnownRate(t *testing.T) {
	rows := []Row{
		{Quantity: 2, UnitPrice: 10, Currency: "EUR"},
	}

	out := CurrencyStage{Config: usdConfig()}.Transform(rows)

	want := 2.0 * 10 * 1.10
	if out[0].RevenueBase != want {
		t.Errorf("RevenueBase = %f, want %f", out[0].RevenueBase, want)
	}
}

func TestCurrencyStage_BaseCurrency(t *testing.T) {
	rows := []Row{
		{Quantity: 3, UnitPrice: 20, Currency: "USD"},
	}

	out := CurrencyStage{Config: usdConfig()}.Transform(rows)

	if out[0].RevenueBase != 60 {
		t.Errorf("RevenueBase = %f, want 60", out[0].RevenueBase)
	}
}

func TestCurrencyStage_UnknownCurrencyPassthrough(t *testing.T) {
	rows := []Row{
		{Quantity: 4, UnitPrice: 5, Currency: "XYZ"},
	}

	out := CurrencyStage{Config: usdConfig()}.Transform(rows)

	// Unknown currency converts 1:1
	if out[0].RevenueBase != 20 {
		t.Errorf("RevenueBase = %f, want 20", out[0].RevenueBase)
	}
}
