package domain

import (
	"fmt"
	"strings"
)

// Price is an amount in minor currency units (paise for INR).
type Price struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Rupees returns the whole-unit part of the amount.
func (p Price) Rupees() int64 {
	return p.Amount / 100
}

// Display renders the price the way the storefront shows it, e.g. "₹1,200".
func (p Price) Display() string {
	return "₹" + groupIndian(p.Amount/100)
}

// ParsePrice converts a display-formatted price string such as "₹1,200" or
// "1200.50" into minor units. Currency symbols, grouping separators, and
// whitespace are ignored; at most two fractional digits are honoured.
func ParsePrice(s, currency string) (Price, error) {
	var whole, frac strings.Builder
	inFrac := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if inFrac {
				if frac.Len() < 2 {
					frac.WriteRune(r)
				}
			} else {
				whole.WriteRune(r)
			}
		case r == '.' && whole.Len() > 0:
			inFrac = true
		}
	}
	if whole.Len() == 0 && frac.Len() == 0 {
		return Price{}, fmt.Errorf("no numeric value in %q", s)
	}

	var amount int64
	for _, r := range whole.String() {
		amount = amount*10 + int64(r-'0')
	}
	amount *= 100
	f := frac.String()
	for len(f) < 2 {
		f += "0"
	}
	var paise int64
	for _, r := range f {
		paise = paise*10 + int64(r-'0')
	}
	amount += paise

	return Price{Amount: amount, Currency: currency}, nil
}

// groupIndian formats n with Indian digit grouping (1,23,456).
func groupIndian(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	head := s[:len(s)-3]
	tail := s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
