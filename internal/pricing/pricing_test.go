package pricing

import (
	"errors"
	"testing"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

func TestQuote_RegularWithDiscount(t *testing.T) {
	// 399 - 50 = 349, ×1.05 = 366.45 USD, ×84 ×100 = 3078180 paise.
	got, err := Quote(domain.TicketRegular, 50, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 3078180 {
		t.Fatalf("expected 3078180 paise, got %d", got)
	}
}

func TestQuote_InvalidTicketType(t *testing.T) {
	_, err := Quote(domain.TicketType("VIP"), 0, 0)
	if !errors.Is(err, domain.ErrInvalidTicketType) {
		t.Fatalf("expected ErrInvalidTicketType, got %v", err)
	}
}

func TestQuote_DiscountClampsAtZero(t *testing.T) {
	got, err := Quote(domain.TicketListener, 500, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 0 {
		t.Fatalf("expected zero amount for over-discounted ticket, got %d", got)
	}
}

func TestQuote_MonotonicInDiscount(t *testing.T) {
	for ticket := range map[domain.TicketType]struct{}{
		domain.TicketEarlyBird: {},
		domain.TicketRegular:   {},
		domain.TicketStudent:   {},
		domain.TicketEOral:     {},
		domain.TicketEPoster:   {},
		domain.TicketListener:  {},
	} {
		prev, err := Quote(ticket, 0, 0)
		if err != nil {
			t.Fatalf("%s: %v", ticket, err)
		}
		for discount := 10.0; discount <= 500; discount += 10 {
			got, err := Quote(ticket, discount, 0)
			if err != nil {
				t.Fatalf("%s discount %v: %v", ticket, discount, err)
			}
			if got > prev {
				t.Fatalf("%s: amount increased from %d to %d at discount %v", ticket, prev, got, discount)
			}
			prev = got
		}
		if prev != 0 {
			t.Fatalf("%s: expected clamp to zero at max discount, got %d", ticket, prev)
		}
	}
}

func TestQuote_Deterministic(t *testing.T) {
	a, _ := Quote(domain.TicketStudent, 20, 0)
	b, _ := Quote(domain.TicketStudent, 20, 0)
	if a != b {
		t.Fatalf("quotes differ: %d vs %d", a, b)
	}
}

func TestQuote_CustomTotalOverrides(t *testing.T) {
	// Client-computed total of 100 USD converts directly.
	got, err := Quote(domain.TicketRegular, 0, 100)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 840000 {
		t.Fatalf("expected 840000 paise, got %d", got)
	}
}

func TestQuote_CustomTotalStillChecksTicketType(t *testing.T) {
	_, err := Quote(domain.TicketType("bogus"), 0, 100)
	if !errors.Is(err, domain.ErrInvalidTicketType) {
		t.Fatalf("expected ErrInvalidTicketType, got %v", err)
	}
}

func TestQuote_RoundsHalfToEven(t *testing.T) {
	// 0.03125 USD is exactly representable and converts to 262.5
	// paise, which rounds down to the even 262 rather than up to 263.
	got, err := Quote(domain.TicketRegular, 0, 0.03125)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 262 {
		t.Fatalf("expected 262 paise, got %d", got)
	}
}
