// Package money formats USD prices for display in USD or INR.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
)

// Currency display currency
type Currency string

const (
	USD Currency = constants.CurrencyUSD
	INR Currency = constants.CurrencyINR
)

// ParseCurrency accepts "usd"/"inr" in any case; anything else falls back to USD.
func ParseCurrency(raw string) Currency {
	if strings.EqualFold(strings.TrimSpace(raw), string(INR)) {
		return INR
	}
	return USD
}

// Toggle USD <-> INR
func (c Currency) Toggle() Currency {
	if c == INR {
		return USD
	}
	return INR
}

// Format converts a USD amount and renders it without fraction digits,
// "$1,234" for USD and "₹1,02,422" (Indian grouping) for INR.
func Format(amountUSD float64, currency Currency, rate float64) string {
	amount := amountUSD
	symbol := "$"
	indian := false
	if currency == INR {
		if rate <= 0 {
			rate = constants.USDToINRRate
		}
		amount = amountUSD * rate
		symbol = "₹"
		indian = true
	}

	n := int64(math.Round(math.Abs(amount)))
	digits := fmt.Sprintf("%d", n)
	var grouped string
	if indian {
		grouped = groupIndian(digits)
	} else {
		grouped = groupThousands(digits)
	}

	out := symbol + grouped
	if amount < 0 && n != 0 {
		return "-" + out
	}
	return out
}

// FormatSigned like Format but always prefixes positive amounts with "+".
func FormatSigned(amountUSD float64, currency Currency, rate float64) string {
	s := Format(amountUSD, currency, rate)
	if amountUSD > 0 && !strings.HasPrefix(s, "-") && s != Format(0, currency, rate) {
		return "+" + s
	}
	return s
}

func groupThousands(s string) string {
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// groupIndian last three digits, then groups of two: 1,02,45,000
func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}
