// Package inrwords spells rupee amounts the way Indian documents print them (lakh, crore).
package inrwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// scales are checked largest first.
var scales = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// Number spells a non-negative integer; zero yields "".
func Number(n int64) string {
	if n <= 0 {
		return ""
	}
	if n < 20 {
		return ones[n]
	}
	if n < 100 {
		return strings.TrimSpace(tens[n/10] + " " + ones[n%10])
	}
	for _, s := range scales {
		if n >= s.size {
			head := Number(n/s.size) + " " + s.name
			if rest := n % s.size; rest > 0 {
				return head + " " + Number(rest)
			}
			return head
		}
	}
	return ""
}

// Rupees spells an amount as "<x> Rupees and <y> Paise Only". Paise are rounded to two places.
func Rupees(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, Number(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, Number(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
