package pipeline

import (
	"math"
	"testing"

	"reorder-forecast/internal/domain"
)

func TestRefundStage_ProportionalAllocation(t *testing.T) {
	// Order o1: two lines with revenue 30 and 70, refund 50.
	// Line reductions must be proportional: 15 and 35.
	rows := []Row{
		{ExternalOrderID: "o1", RevenueBase: 30},
		{ExternalOrderID: "o1", RevenueBase: 70},
	}
	refunds := []*domain.RawRefund{
		{ExternalOrderID: "o1", Amount: 50, Currency: "USD"},
	}

	out := RefundStage{Config: usdConfig(), Refunds: refunds}.Transform(rows)

	if math.Abs(out[0].RevenueBase-15) > 1e-9 {
		t.Errorf("Line 0 revenue = %f, want 15", out[0].RevenueBase)
	}
	if math.Abs(out[1].RevenueBase-35) > 1e-9 {
		t.Errorf("Line 1 revenue = %f, want 35", out[1].RevenueBase)
	}

	// Sum of post-refund revenues = R - F
	total := out[0].RevenueBase + out[1].RevenueBase
	if math.Abs(total-50) > 1e-9 {
		t.Errorf("Total post-refund revenue = %f, want 50", total)
	}
}

func TestRefundStage_HalfRefundHalvesRevenue(t *testing.T) {
	rows := []Row{
		{ExternalOrderID: "o1", RevenueBase: 40},
	}
	refunds := []*domain.RawRefund{
		{ExternalOrderID: "o1", Amount: 20, Currency: "USD"},
	}

	out := RefundStage{Config: usdConfig(), Refunds: refunds}.Transform(rows)

	if out[0].RevenueBase != 20 {
		t.Errorf("RevenueBase = %f, want 20", out[0].RevenueBase)
	}
}

func TestRefundStage_OverRefundClampsToZero(t *testing.T) {
	rows := []Row{
		{ExternalOrderID: "o1", RevenueBase: 10},
	}
	refunds := []*domain.RawRefund{
		{ExternalOrderID: "o1", Amount: 25, Currency: "USD"},
	}

	out := RefundStage{Config: usdConfig(), Refunds: refunds}.Transform(rows)

	if out[0].RevenueBase != 0 {
		t.Errorf("RevenueBase = %f, want 0", out[0].RevenueBase)
	}
}

func TestRefundStage_ZeroRevenueOrderDropsRefund(t *testing.T) {
	rows := []Row{
		{ExternalOrderID: "o1", RevenueBase: 0},
	}
	refunds := []*domain.RawRefund{
		{ExternalOrderID: "o1", Amount: 10, Currency: "USD"},
	}

	out := RefundStage{Config: usdConfig(), Refunds: refunds}.Transform(rows)

	if out[0].RevenueBase != 0 {
		t.Errorf("RevenueBase = %f, want 0", out[0].RevenueBase)
	}
}

func TestRefundStage_RefundCurrencyConverted(t *testing.T) {
	rows := []Row{
		{ExternalOrderID: "o1", RevenueBase: 100},
	}
	// 10 EUR at rate 1.10 = 11 USD
	refunds := []*domain.RawRefund{
		{ExternalOrderID: "o1", Amount: 10, Currency: "EUR"},
	}

	out := RefundStage{Config: usdConfig(), Refunds: refunds}.Transform(rows)

	if math.Abs(out[0].RevenueBase-89) > 1e-9 {
		t.Errorf("RevenueBase = %f, want 89", out[0].RevenueBase)
	}
}

func TestRefundStage_UnrelatedOrdersUntouched(t *testing.T) {
	rows := []Row{
		{ExternalOrderID: "o1", RevenueBase: 100},
		{ExternalOrderID: "o2", RevenueBase: 50},
	}
	refunds := []*domain.RawRefund{
		{ExternalOrderID: "o1", Amount: 10, Currency: "USD"},
	}

	out := RefundStage{Config: usdConfig(), Refunds: refunds}.Transform(rows)

	if out[1].RevenueBase != 50 {
		t.Errorf("Unrelated order revenue changed: %f", out[1].RevenueBase)
	}
}
