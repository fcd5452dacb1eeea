package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pesoPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatPesos renders an amount the way tickets and reports print it:
// "$40.000". Amounts are rounded to whole pesos for display only.
func FormatPesos(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0"
	}
	n := int64(math.Round(amount))
	if n < 0 {
		return pesoPrinter.Sprintf("-$%d", -n)
	}
	return pesoPrinter.Sprintf("$%d", n)
}

// FormatPercent renders a percentage with one decimal, e.g. "12,5%".
func FormatPercent(p float64) string {
	return pesoPrinter.Sprintf("%.1f%%", p)
}
