package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/repository"
)

// CouponService validates and administers discount codes. Redemption
// (the usedCount increment) is not done here: validation may run many
// times without a purchase, so PaymentService consumes the use at
// order-creation time.
type CouponService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewCouponService(store repository.Store, logger *slog.Logger) *CouponService {
	return &CouponService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve finds a coupon by code, trying the exact spelling first, then
// uppercase, then lowercase. First match wins.
func (s *CouponService) Resolve(ctx context.Context, code string) (*domain.Coupon, error) {
	for _, candidate := range candidates(code) {
		coupon, err := s.store.GetCouponByCode(ctx, candidate)
		if err == nil {
			return coupon, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrCouponNotFound
}

func candidates(code string) []string {
	out := []string{code}
	if upper := strings.ToUpper(code); upper != code {
		out = append(out, upper)
	}
	if lower := strings.ToLower(code); lower != code {
		out = append(out, lower)
	}
	return out
}

// Validate checks a code and returns the client-facing offer. The
// checks run in a fixed order so the caller always learns the most
// specific reason: existence, active flag, expiry, usage limit.
func (s *CouponService) Validate(ctx context.Context, code string) (*domain.CouponOffer, error) {
	coupon, err := s.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			s.logger.Info("coupon validation failed", "code", code, "reason", "not found")
		}
		return nil, err
	}

	if !coupon.IsActive {
		return nil, domain.ErrCouponInactive
	}
	if s.now().After(coupon.ValidUntil) {
		return nil, domain.ErrCouponExpired
	}
	if coupon.UsedCount >= coupon.MaxUses {
		return nil, domain.ErrCouponExhausted
	}

	return &domain.CouponOffer{
		Code:          coupon.Code,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
	}, nil
}

// ErrCouponExists reports a duplicate admin-created code.
var ErrCouponExists = errors.New("coupon code already exists")

// Create adds a new coupon. Codes are stored uppercased, matching how
// the admin tooling always wrote them.
func (s *CouponService) Create(ctx context.Context, code string, discountType domain.DiscountType, discountValue float64, maxUses int, validUntil time.Time) (*domain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if maxUses <= 0 {
		maxUses = 1
	}

	if _, err := s.store.GetCouponByCode(ctx, code); err == nil {
		return nil, ErrCouponExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	coupon := &domain.Coupon{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		IsActive:      true,
		ValidUntil:    validUntil,
		MaxUses:       maxUses,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.store.ListCoupons(ctx)
}

func (s *CouponService) SetActive(ctx context.Context, code string, active bool) (*domain.Coupon, error) {
	coupon, err := s.store.SetCouponActive(ctx, code, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}
