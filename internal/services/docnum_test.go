package services

import (
	"regexp"
	"testing"
	"time"
)

func TestDocumentNumber(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 123000000, time.UTC)

	tests := []struct {
		name   string
		prefix string
		want   *regexp.Regexp
	}{
		{"bill prefix", PrefixBill, regexp.MustCompile(`^BILL-2026-\d{6}$`)},
		{"invoice prefix", PrefixInvoice, regexp.MustCompile(`^INV-2026-\d{6}$`)},
		{"exchange prefix", PrefixExchange, regexp.MustCompile(`^EXCH-2026-\d{6}$`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documentNumber(tt.prefix, now)
			if !tt.want.MatchString(got) {
				t.Errorf("documentNumber(%q) = %q, want match for %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestDocumentNumberSuffixFromClock(t *testing.T) {
	now := time.UnixMilli(1700000123456)
	got := documentNumber(PrefixBill, now)
	want := "BILL-" + now.Format("2006") + "-123456"
	if got != want {
		t.Errorf("documentNumber() = %q, want %q", got, want)
	}
}

func TestCollisionRetryNumberShape(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^BILL-2026-\d{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		got := collisionRetryNumber(PrefixBill, now)
		if !pattern.MatchString(got) {
			t.Fatalf("collisionRetryNumber() = %q, want match for %v", got, pattern)
		}
		seen[got] = true
	}
	// Ten draws landing on one value would mean the suffix is not random.
	if len(seen) < 2 {
		t.Errorf("collisionRetryNumber() produced no variation across draws: %v", seen)
	}
}
