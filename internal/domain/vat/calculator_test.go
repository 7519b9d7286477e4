package vat_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/vat"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplit_StandardRate20(t *testing.T) {
	// 2 × 120.00 at 20% → gross 240.00, vat 40.00 (240 × 20/120), net 200.00
	got, err := vat.Split(d("2"), d("120"), d("20"))
	require.NoError(t, err)

	assert.True(t, got.Gross.Equal(d("240.00")), "gross = %s", got.Gross)
	assert.True(t, got.VAT.Equal(d("40.00")), "vat = %s", got.VAT)
	assert.True(t, got.Net.Equal(d("200.00")), "net = %s", got.Net)
}

func TestSplit_ZeroRate(t *testing.T) {
	got, err := vat.Split(d("3"), d("50"), d("0"))
	require.NoError(t, err)

	assert.True(t, got.Gross.Equal(d("150")))
	assert.True(t, got.VAT.IsZero())
	assert.True(t, got.Net.Equal(d("150")))
}

func TestSplit_RoundsHalfUpOncePerLine(t *testing.T) {
	// 0.333 × 99.99 = 33.29667 → gross 33.30; vat = 33.30 × 20/120 = 5.55
	got, err := vat.Split(d("0.333"), d("99.99"), d("20"))
	require.NoError(t, err)

	assert.True(t, got.Gross.Equal(d("33.30")), "gross = %s", got.Gross)
	assert.True(t, got.VAT.Equal(d("5.55")), "vat = %s", got.VAT)
	// net is derived by subtraction, never rounded on its own
	assert.True(t, got.Net.Equal(got.Gross.Sub(got.VAT)))
}

func TestSplit_GrossIsAlwaysNetPlusVAT(t *testing.T) {
	cases := []struct{ qty, price, rate string }{
		{"1", "0.01", "20"},
		{"7", "13.37", "20"},
		{"2.5", "99.99", "7"},
		{"1000", "0.07", "20"},
	}
	for _, tc := range cases {
		got, err := vat.Split(d(tc.qty), d(tc.price), d(tc.rate))
		require.NoError(t, err)
		assert.True(t, got.Gross.Equal(got.Net.Add(got.VAT)),
			"qty=%s price=%s rate=%s: %s != %s + %s",
			tc.qty, tc.price, tc.rate, got.Gross, got.Net, got.VAT)
	}
}

func TestSplit_RejectsDegenerateInputs(t *testing.T) {
	_, err := vat.Split(d("0"), d("10"), d("20"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "zero quantity")

	_, err = vat.Split(d("-1"), d("10"), d("20"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "negative quantity")

	_, err = vat.Split(d("1"), d("-10"), d("20"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "negative price")
}

func TestSum_AddsLineComponentsNotRecomputes(t *testing.T) {
	// Three lines whose per-line VAT rounds down; a recomputation from the
	// summed gross would give a different (wrong) total VAT.
	var lines []vat.Amounts
	for i := 0; i < 3; i++ {
		a, err := vat.Split(d("1"), d("0.07"), d("20"))
		require.NoError(t, err)
		lines = append(lines, a)
	}
	total := vat.Sum(lines)

	assert.True(t, total.Gross.Equal(d("0.21")))
	assert.True(t, total.VAT.Equal(d("0.03")), "sum of per-line vat, not round2(0.21×20/120)=0.04")
	assert.True(t, total.Net.Equal(d("0.18")))
}
