package currency

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	conv := NewConverter()
	cases := []struct {
		amount string
		to     string
		want   string
	}{
		{"1000", "XAF", "1000"},
		{"1000", "USD", "1.5"},
		{"1000", "EUR", "1.4"},
		{"0", "USD", "0"},
	}
	for i, tc := range cases {
		got, err := conv.Convert(decimal.RequireFromString(tc.amount), tc.to)
		if err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if got.String() != tc.want {
			t.Fatalf("case %d: expected %s, got %s", i, tc.want, got)
		}
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	conv := NewConverter()
	_, err := conv.Convert(decimal.NewFromInt(10), "GBP")
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

// Values converted fresh from canonical amounts must be identical no
// matter how many display switches happened in between.
func TestConvertNoDriftAcrossSwitches(t *testing.T) {
	conv := NewConverter()
	canonical := decimal.RequireFromString("123456.78")

	first, err := conv.Convert(canonical, "USD")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	// Simulate switching USD -> EUR -> USD; each conversion starts from
	// the stored canonical amount.
	if _, err := conv.Convert(canonical, "EUR"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	again, err := conv.Convert(canonical, "USD")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !first.Equal(again) {
		t.Fatalf("expected identical values, got %s then %s", first, again)
	}
}

func TestCodes(t *testing.T) {
	got := NewConverter().Codes()
	want := []string{"EUR", "USD", "XAF"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
