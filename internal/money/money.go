// Package money formats amounts for display. Amounts are carried as float64
// through the tax engine and only rounded here, at the presentation edge.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round returns v rounded half away from zero to two places.
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Format renders v with exactly two decimals, e.g. "29500.00".
func Format(v float64) string {
	return Round(v).StringFixed(2)
}

// FormatIndian renders v with two decimals and Indian digit grouping, e.g.
// "1,23,456.70". The last three integer digits form one group and the rest
// are grouped in pairs.
func FormatIndian(v float64) string {
	s := Format(v)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + frac
	}

	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail + "." + frac
}

// Percent renders a rate such as 18 or 2.5 without trailing zeros, followed by "%".
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).String() + "%"
}
