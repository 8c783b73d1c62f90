package domain

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"₹1,200", 120000},
		{"₹500", 50000},
		{"1200.50", 120050},
		{"Rs. 2,700", 270000},
		{"₹1,23,456", 12345600},
		{"99", 9900},
	}
	for _, tc := range cases {
		p, err := ParsePrice(tc.in, "INR")
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", tc.in, err)
		}
		if p.Amount != tc.want {
			t.Fatalf("ParsePrice(%q) = %d, want %d", tc.in, p.Amount, tc.want)
		}
		if p.Currency != "INR" {
			t.Fatalf("ParsePrice(%q) currency = %q", tc.in, p.Currency)
		}
	}
}

func TestParsePriceRejectsNonNumeric(t *testing.T) {
	if _, err := ParsePrice("free", "INR"); err == nil {
		t.Fatal("expected error for non-numeric price")
	}
	if _, err := ParsePrice("", "INR"); err == nil {
		t.Fatal("expected error for empty price")
	}
}

func TestPriceDisplay(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{120000, "₹1,200"},
		{50000, "₹500"},
		{12345600, "₹1,23,456"},
	}
	for _, tc := range cases {
		got := Price{Amount: tc.amount, Currency: "INR"}.Display()
		if got != tc.want {
			t.Fatalf("Display(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
