package repository

import (
	"context"
	"sync"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

// MemoryStore is an in-memory Store used by tests and local runs
// without a database. A single mutex gives it the same serializable
// read-then-write behavior the SQL statements provide.
type MemoryStore struct {
	mu        sync.Mutex
	attendees map[string]*domain.Attendee
	coupons   map[string]*domain.Coupon
	feedback  []domain.ExitFeedback
	nextID    int64
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		attendees: make(map[string]*domain.Attendee),
		coupons:   make(map[string]*domain.Coupon),
	}
}

var _ Store = (*MemoryStore)(nil)

// memQuerier runs with the store lock already held.
type memQuerier struct {
	s *MemoryStore
}

func (s *MemoryStore) ExecTx(_ context.Context, fn func(Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot so a failing fn leaves no partial writes behind.
	attendees := make(map[string]*domain.Attendee, len(s.attendees))
	for k, v := range s.attendees {
		cp := *v
		attendees[k] = &cp
	}
	coupons := make(map[string]*domain.Coupon, len(s.coupons))
	for k, v := range s.coupons {
		cp := *v
		coupons[k] = &cp
	}

	if err := fn(memQuerier{s}); err != nil {
		s.attendees = attendees
		s.coupons = coupons
		return err
	}
	return nil
}

func (q memQuerier) RedeemCoupon(_ context.Context, code string) (int64, error) {
	return q.s.redeemCouponLocked(code), nil
}

func (q memQuerier) BindProviderOrder(_ context.Context, attendeeID, orderID string) (int64, error) {
	return q.s.bindProviderOrderLocked(attendeeID, orderID), nil
}

func (s *MemoryStore) redeemCouponLocked(code string) int64 {
	c, ok := s.coupons[code]
	if !ok || c.UsedCount >= c.MaxUses {
		return 0
	}
	c.UsedCount++
	return 1
}

func (s *MemoryStore) bindProviderOrderLocked(attendeeID, orderID string) int64 {
	a, ok := s.attendees[attendeeID]
	if !ok || a.ProviderOrderID != nil {
		return 0
	}
	id := orderID
	a.ProviderOrderID = &id
	return 1
}

func (s *MemoryStore) RedeemCoupon(_ context.Context, code string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redeemCouponLocked(code), nil
}

func (s *MemoryStore) BindProviderOrder(_ context.Context, attendeeID, orderID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindProviderOrderLocked(attendeeID, orderID), nil
}

func (s *MemoryStore) CreateAttendee(_ context.Context, a *domain.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.attendees[a.ID] = &cp
	return nil
}

func (s *MemoryStore) GetAttendee(_ context.Context, id string) (*domain.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attendees[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) GetAttendeeByOrderID(_ context.Context, orderID string) (*domain.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attendees {
		if a.ProviderOrderID != nil && *a.ProviderOrderID == orderID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListAttendees(_ context.Context) ([]domain.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Attendee, 0, len(s.attendees))
	for _, a := range s.attendees {
		out = append(out, *a)
	}
	return out, nil
}

func (s *MemoryStore) CompletePayment(_ context.Context, orderID, paymentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attendees {
		if a.ProviderOrderID == nil || *a.ProviderOrderID != orderID {
			continue
		}
		if a.PaymentStatus == domain.PaymentCompleted {
			return 0, nil
		}
		a.PaymentStatus = domain.PaymentCompleted
		a.HasPaid = true
		pid := paymentID
		a.ProviderPaymentID = &pid
		return 1, nil
	}
	return 0, nil
}

func (s *MemoryStore) MarkAbandoned(_ context.Context, orderID, feedback string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attendees {
		if a.ProviderOrderID == nil || *a.ProviderOrderID != orderID {
			continue
		}
		if a.PaymentStatus == domain.PaymentCompleted {
			return 0, nil
		}
		a.PaymentStatus = domain.PaymentAbandoned
		fb := feedback
		a.PaymentFeedback = &fb
		return 1, nil
	}
	return 0, nil
}

func (s *MemoryStore) CreateCoupon(_ context.Context, c *domain.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.coupons[c.Code] = &cp
	return nil
}

func (s *MemoryStore) GetCouponByCode(_ context.Context, code string) (*domain.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) ListCoupons(_ context.Context) ([]domain.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (s *MemoryStore) SetCouponActive(_ context.Context, code string, active bool) (*domain.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[code]
	if !ok {
		return nil, ErrNotFound
	}
	c.IsActive = active
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) InsertExitFeedback(_ context.Context, f *domain.ExitFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	s.feedback = append(s.feedback, *f)
	return nil
}

func (s *MemoryStore) ListExitFeedback(_ context.Context) ([]domain.ExitFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Newest first, matching the SQL ordering.
	out := make([]domain.ExitFeedback, 0, len(s.feedback))
	for i := len(s.feedback) - 1; i >= 0; i-- {
		out = append(out, s.feedback[i])
	}
	return out, nil
}
