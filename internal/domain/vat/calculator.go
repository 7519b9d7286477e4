// Package vat computes VAT-inclusive price splits the way Ukrainian primary
// documents expect them: the displayed unit price already contains VAT, and
// the tax is extracted from the gross amount (ПДВ = gross × rate / (100+rate)).
package vat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Amounts is the result of splitting one line. gross = net + vat always holds
// exactly: net is derived by subtraction, not rounded independently.
type Amounts struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal
}

// Split computes the VAT breakdown for one line with a VAT-inclusive unit
// price. Rounding is to 2 decimal places, half up, applied once per line:
//
//	gross = round2(quantity × unitPriceGross)
//	vat   = round2(gross × rate / (100 + rate))
//	net   = gross − vat
func Split(quantity, unitPriceGross, ratePercent decimal.Decimal) (Amounts, error) {
	if !quantity.IsPositive() {
		return Amounts{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if unitPriceGross.IsNegative() {
		return Amounts{}, fmt.Errorf("%w: unit price must not be negative", domain.ErrInvalidInput)
	}
	if ratePercent.IsNegative() {
		return Amounts{}, fmt.Errorf("%w: VAT rate must not be negative", domain.ErrInvalidInput)
	}

	gross := quantity.Mul(unitPriceGross).Round(2)
	vat := gross.Mul(ratePercent).Div(hundred.Add(ratePercent)).Round(2)
	return Amounts{
		Net:   gross.Sub(vat),
		VAT:   vat,
		Gross: gross,
	}, nil
}

// Sum adds already-rounded line amounts into document totals. Totals are
// never re-derived from the total gross: re-applying the rate to a sum
// compounds rounding error across lines.
func Sum(lines []Amounts) Amounts {
	var total Amounts
	for _, l := range lines {
		total.Net = total.Net.Add(l.Net)
		total.VAT = total.VAT.Add(l.VAT)
		total.Gross = total.Gross.Add(l.Gross)
	}
	return total
}
