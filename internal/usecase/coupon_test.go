package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/repository"
)

// mockStore overrides only the methods a test exercises; anything else
// panics loudly through the embedded nil interface.
type mockStore struct {
	repository.Store
	getCouponByCodeFn func(ctx context.Context, code string) (*domain.Coupon, error)
	createCouponFn    func(ctx context.Context, c *domain.Coupon) error
	setCouponActiveFn func(ctx context.Context, code string, active bool) (*domain.Coupon, error)
}

func (m *mockStore) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return m.getCouponByCodeFn(ctx, code)
}

func (m *mockStore) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	return m.createCouponFn(ctx, c)
}

func (m *mockStore) SetCouponActive(ctx context.Context, code string, active bool) (*domain.Coupon, error) {
	return m.setCouponActiveFn(ctx, code, active)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// storedOnly returns a lookup that matches one exact stored code.
func storedOnly(stored domain.Coupon) func(ctx context.Context, code string) (*domain.Coupon, error) {
	return func(_ context.Context, code string) (*domain.Coupon, error) {
		if code == stored.Code {
			cp := stored
			return &cp, nil
		}
		return nil, repository.ErrNotFound
	}
}

func usableCoupon(code string) domain.Coupon {
	return domain.Coupon{
		Code:          code,
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
		ValidUntil:    time.Now().Add(24 * time.Hour),
		MaxUses:       100,
		UsedCount:     3,
	}
}

func TestValidate_ExactMatch(t *testing.T) {
	store := &mockStore{getCouponByCodeFn: storedOnly(usableCoupon("SAVE10"))}
	svc := NewCouponService(store, discardLogger())

	offer, err := svc.Validate(context.Background(), "SAVE10")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if offer.Code != "SAVE10" || offer.DiscountType != domain.DiscountPercentage || offer.DiscountValue != 10 {
		t.Fatalf("unexpected offer: %+v", offer)
	}
}

func TestValidate_CaseFallback(t *testing.T) {
	store := &mockStore{getCouponByCodeFn: storedOnly(usableCoupon("SAVE10"))}
	svc := NewCouponService(store, discardLogger())

	for _, input := range []string{"save10", "Save10"} {
		offer, err := svc.Validate(context.Background(), input)
		if err != nil {
			t.Fatalf("validating %q: expected no error, got %v", input, err)
		}
		if offer.Code != "SAVE10" {
			t.Fatalf("validating %q: expected stored code SAVE10, got %q", input, offer.Code)
		}
	}
}

func TestValidate_NoVariantMatches(t *testing.T) {
	store := &mockStore{getCouponByCodeFn: storedOnly(usableCoupon("SAVE10"))}
	svc := NewCouponService(store, discardLogger())

	_, err := svc.Validate(context.Background(), "SAVE-10")
	if !errors.Is(err, domain.ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestValidate_ExactBeatsUppercase(t *testing.T) {
	// Both "code" and "CODE" exist; the exact spelling must win.
	lower := usableCoupon("code")
	lower.DiscountValue = 5
	upper := usableCoupon("CODE")
	upper.DiscountValue = 50

	store := &mockStore{getCouponByCodeFn: func(_ context.Context, code string) (*domain.Coupon, error) {
		switch code {
		case "code":
			cp := lower
			return &cp, nil
		case "CODE":
			cp := upper
			return &cp, nil
		}
		return nil, repository.ErrNotFound
	}}
	svc := NewCouponService(store, discardLogger())

	offer, err := svc.Validate(context.Background(), "code")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if offer.DiscountValue != 5 {
		t.Fatalf("expected exact match discount 5, got %v", offer.DiscountValue)
	}
}

func TestValidate_Inactive(t *testing.T) {
	coupon := usableCoupon("SAVE10")
	coupon.IsActive = false
	store := &mockStore{getCouponByCodeFn: storedOnly(coupon)}
	svc := NewCouponService(store, discardLogger())

	_, err := svc.Validate(context.Background(), "SAVE10")
	if !errors.Is(err, domain.ErrCouponInactive) {
		t.Fatalf("expected ErrCouponInactive, got %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coupon := usableCoupon("SAVE10")
	coupon.ValidUntil = now.Add(-time.Second)

	store := &mockStore{getCouponByCodeFn: storedOnly(coupon)}
	svc := NewCouponService(store, discardLogger())
	svc.now = func() time.Time { return now }

	_, err := svc.Validate(context.Background(), "SAVE10")
	if !errors.Is(err, domain.ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}
}

func TestValidate_ValidExactlyAtExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coupon := usableCoupon("SAVE10")
	coupon.ValidUntil = now

	store := &mockStore{getCouponByCodeFn: storedOnly(coupon)}
	svc := NewCouponService(store, discardLogger())
	svc.now = func() time.Time { return now }

	if _, err := svc.Validate(context.Background(), "SAVE10"); err != nil {
		t.Fatalf("coupon valid until now should still validate, got %v", err)
	}
}

func TestValidate_Exhausted(t *testing.T) {
	coupon := usableCoupon("SAVE10")
	coupon.MaxUses = 1
	coupon.UsedCount = 1

	store := &mockStore{getCouponByCodeFn: storedOnly(coupon)}
	svc := NewCouponService(store, discardLogger())

	_, err := svc.Validate(context.Background(), "SAVE10")
	if !errors.Is(err, domain.ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted, got %v", err)
	}
}

func TestValidate_CheckOrderInactiveBeforeExpired(t *testing.T) {
	// Inactive AND expired: the inactive reason is reported first.
	coupon := usableCoupon("SAVE10")
	coupon.IsActive = false
	coupon.ValidUntil = time.Now().Add(-time.Hour)

	store := &mockStore{getCouponByCodeFn: storedOnly(coupon)}
	svc := NewCouponService(store, discardLogger())

	_, err := svc.Validate(context.Background(), "SAVE10")
	if !errors.Is(err, domain.ErrCouponInactive) {
		t.Fatalf("expected ErrCouponInactive, got %v", err)
	}
}

func TestCreate_UppercasesAndDefaults(t *testing.T) {
	var created *domain.Coupon
	store := &mockStore{
		getCouponByCodeFn: func(context.Context, string) (*domain.Coupon, error) {
			return nil, repository.ErrNotFound
		},
		createCouponFn: func(_ context.Context, c *domain.Coupon) error {
			created = c
			return nil
		},
	}
	svc := NewCouponService(store, discardLogger())

	_, err := svc.Create(context.Background(), " launch20 ", domain.DiscountFixed, 20, 0, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Code != "LAUNCH20" {
		t.Fatalf("expected uppercased code, got %q", created.Code)
	}
	if created.MaxUses != 1 {
		t.Fatalf("expected default maxUses 1, got %d", created.MaxUses)
	}
	if !created.IsActive {
		t.Fatal("expected new coupon to start active")
	}
}

func TestCreate_Duplicate(t *testing.T) {
	existing := usableCoupon("LAUNCH20")
	store := &mockStore{getCouponByCodeFn: storedOnly(existing)}
	svc := NewCouponService(store, discardLogger())

	_, err := svc.Create(context.Background(), "launch20", domain.DiscountFixed, 20, 5, time.Now().Add(time.Hour))
	if !errors.Is(err, ErrCouponExists) {
		t.Fatalf("expected ErrCouponExists, got %v", err)
	}
}
