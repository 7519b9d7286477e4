// Package numwords spells out UAH amounts in Ukrainian for the "сума
// прописом" field of printed documents. The engine only supplies this string;
// rendering itself is an external concern.
package numwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	unitsMasc = [10]string{"", "один", "два", "три", "чотири", "п'ять", "шість", "сім", "вісім", "дев'ять"}
	unitsFem  = [10]string{"", "одна", "дві", "три", "чотири", "п'ять", "шість", "сім", "вісім", "дев'ять"}
	teens     = [10]string{"десять", "одинадцять", "дванадцять", "тринадцять", "чотирнадцять",
		"п'ятнадцять", "шістнадцять", "сімнадцять", "вісімнадцять", "дев'ятнадцять"}
	tens = [10]string{"", "", "двадцять", "тридцять", "сорок", "п'ятдесят",
		"шістдесят", "сімдесят", "вісімдесят", "дев'яносто"}
	hundreds = [10]string{"", "сто", "двісті", "триста", "чотириста", "п'ятсот",
		"шістсот", "сімсот", "вісімсот", "дев'ятсот"}
)

// scale names by grammatical number: one, few (2-4), many.
type scale struct {
	one, few, many string
	feminine       bool
}

var scales = []scale{
	{},                                              // 10^0, no name
	{"тисяча", "тисячі", "тисяч", true},             // 10^3
	{"мільйон", "мільйони", "мільйонів", false},     // 10^6
	{"мільярд", "мільярди", "мільярдів", false},     // 10^9
}

// maxSupported is one over the largest spellable integer part.
const maxSupported = 1_000_000_000_000

// AmountInWords spells amount as hryvnias and kopecks, e.g.
// "двісті сорок грн" or "сто двадцять три грн сорок коп".
// Amounts that cannot be spelled (negative or ≥ 10^12 UAH) come back as the
// plain fixed-point string, matching the behaviour operators already rely on.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	if amount.IsNegative() || amount.GreaterThanOrEqual(decimal.NewFromInt(maxSupported)) {
		return amount.StringFixed(2) + " грн"
	}

	hrn := amount.IntPart()
	kop := amount.Sub(decimal.NewFromInt(hrn)).Mul(decimal.NewFromInt(100)).IntPart()

	out := IntegerInWords(hrn, false) + " грн"
	if kop > 0 {
		out += " " + IntegerInWords(kop, true) + " коп"
	}
	return out
}

// IntegerInWords spells a non-negative integer below 10^12. The feminine flag
// selects "одна/дві" agreement for the lowest triad (kopecks are feminine).
func IntegerInWords(n int64, feminine bool) string {
	if n == 0 {
		return "нуль"
	}

	// Split into triads, lowest first.
	var triads []int64
	for n > 0 {
		triads = append(triads, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(triads) - 1; i >= 0; i-- {
		t := triads[i]
		if t == 0 {
			continue
		}
		fem := feminine
		if i > 0 {
			fem = scales[i].feminine
		}
		parts = append(parts, triadInWords(t, fem))
		if i > 0 {
			parts = append(parts, scaleName(t, scales[i]))
		}
	}
	return strings.Join(parts, " ")
}

func triadInWords(n int64, feminine bool) string {
	units := unitsMasc
	if feminine {
		units = unitsFem
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	rest := n % 100
	switch {
	case rest >= 10 && rest <= 19:
		parts = append(parts, teens[rest-10])
	default:
		if t := rest / 10; t > 0 {
			parts = append(parts, tens[t])
		}
		if u := rest % 10; u > 0 {
			parts = append(parts, units[u])
		}
	}
	return strings.Join(parts, " ")
}

func scaleName(n int64, s scale) string {
	rest := n % 100
	if rest >= 11 && rest <= 14 {
		return s.many
	}
	switch n % 10 {
	case 1:
		return s.one
	case 2, 3, 4:
		return s.few
	default:
		return s.many
	}
}
