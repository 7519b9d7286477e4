package numwords_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/skladpro/sklad-api/internal/domain/numwords"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "нуль грн"},
		{"1", "один грн"},
		{"240.00", "двісті сорок грн"},
		{"123.40", "сто двадцять три грн сорок коп"},
		{"1000", "одна тисяча грн"},
		{"2000", "дві тисячі грн"},
		{"5000", "п'ять тисяч грн"},
		{"12000", "дванадцять тисяч грн"},
		{"21000", "двадцять одна тисяча грн"},
		{"1000000", "один мільйон грн"},
		{"3000002.02", "три мільйони два грн дві коп"},
		{"17.17", "сімнадцять грн сімнадцять коп"},
		{"99.01", "дев'яносто дев'ять грн одна коп"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, numwords.AmountInWords(d(tc.amount)), "amount %s", tc.amount)
	}
}

func TestAmountInWords_UnspeakableFallsBackToDigits(t *testing.T) {
	assert.Equal(t, "-5.00 грн", numwords.AmountInWords(d("-5")))
	assert.Equal(t, "1000000000000.00 грн", numwords.AmountInWords(d("1000000000000")))
}

func TestIntegerInWords_FeminineAgreement(t *testing.T) {
	assert.Equal(t, "одна", numwords.IntegerInWords(1, true))
	assert.Equal(t, "дві", numwords.IntegerInWords(2, true))
	assert.Equal(t, "один", numwords.IntegerInWords(1, false))
	assert.Equal(t, "два", numwords.IntegerInWords(2, false))
}
