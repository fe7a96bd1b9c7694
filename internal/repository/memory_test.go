package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

func seedCoupon(t *testing.T, s *MemoryStore, code string, maxUses, usedCount int) {
	t.Helper()
	err := s.CreateCoupon(context.Background(), &domain.Coupon{
		Code:          code,
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 10,
		IsActive:      true,
		ValidUntil:    time.Now().Add(time.Hour),
		MaxUses:       maxUses,
		UsedCount:     usedCount,
	})
	if err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
}

func TestRedeemCoupon_StopsAtMaxUses(t *testing.T) {
	s := NewMemory()
	seedCoupon(t, s, "TWICE", 2, 0)

	for i := 0; i < 2; i++ {
		rows, err := s.RedeemCoupon(context.Background(), "TWICE")
		if err != nil || rows != 1 {
			t.Fatalf("redemption %d: rows=%d err=%v", i+1, rows, err)
		}
	}

	rows, err := s.RedeemCoupon(context.Background(), "TWICE")
	if err != nil {
		t.Fatalf("third redemption: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows past maxUses, got %d", rows)
	}

	c, _ := s.GetCouponByCode(context.Background(), "TWICE")
	if c.UsedCount != 2 {
		t.Fatalf("usedCount overshot maxUses: %d", c.UsedCount)
	}
}

func TestBindProviderOrder_FirstWriterWins(t *testing.T) {
	s := NewMemory()
	if err := s.CreateAttendee(context.Background(), &domain.Attendee{ID: "att-1", PaymentStatus: domain.PaymentPending}); err != nil {
		t.Fatal(err)
	}

	rows, err := s.BindProviderOrder(context.Background(), "att-1", "order_a")
	if err != nil || rows != 1 {
		t.Fatalf("first bind: rows=%d err=%v", rows, err)
	}
	rows, err = s.BindProviderOrder(context.Background(), "att-1", "order_b")
	if err != nil {
		t.Fatalf("second bind: %v", err)
	}
	if rows != 0 {
		t.Fatal("second bind must not overwrite the first")
	}

	a, _ := s.GetAttendee(context.Background(), "att-1")
	if a.ProviderOrderID == nil || *a.ProviderOrderID != "order_a" {
		t.Fatalf("expected order_a bound, got %v", a.ProviderOrderID)
	}
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	s := NewMemory()
	seedCoupon(t, s, "SAVE", 5, 0)
	if err := s.CreateAttendee(context.Background(), &domain.Attendee{ID: "att-1", PaymentStatus: domain.PaymentPending}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.ExecTx(context.Background(), func(q Querier) error {
		if _, err := q.RedeemCoupon(context.Background(), "SAVE"); err != nil {
			return err
		}
		if _, err := q.BindProviderOrder(context.Background(), "att-1", "order_a"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error surfaced, got %v", err)
	}

	c, _ := s.GetCouponByCode(context.Background(), "SAVE")
	if c.UsedCount != 0 {
		t.Fatalf("coupon use survived rollback: %d", c.UsedCount)
	}
	a, _ := s.GetAttendee(context.Background(), "att-1")
	if a.ProviderOrderID != nil {
		t.Fatalf("order binding survived rollback: %v", *a.ProviderOrderID)
	}
}

func TestCompletePayment_NoSecondTransition(t *testing.T) {
	s := NewMemory()
	order := "order_a"
	if err := s.CreateAttendee(context.Background(), &domain.Attendee{
		ID:              "att-1",
		PaymentStatus:   domain.PaymentPending,
		ProviderOrderID: &order,
	}); err != nil {
		t.Fatal(err)
	}

	rows, err := s.CompletePayment(context.Background(), order, "pay_1")
	if err != nil || rows != 1 {
		t.Fatalf("first completion: rows=%d err=%v", rows, err)
	}
	rows, err = s.CompletePayment(context.Background(), order, "pay_2")
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if rows != 0 {
		t.Fatal("completed attendee must not transition again")
	}

	a, _ := s.GetAttendeeByOrderID(context.Background(), order)
	if a.ProviderPaymentID == nil || *a.ProviderPaymentID != "pay_1" {
		t.Fatalf("payment id overwritten: %v", a.ProviderPaymentID)
	}
}

func TestMarkAbandoned_SkipsCompleted(t *testing.T) {
	s := NewMemory()
	order := "order_a"
	if err := s.CreateAttendee(context.Background(), &domain.Attendee{
		ID:              "att-1",
		PaymentStatus:   domain.PaymentPending,
		ProviderOrderID: &order,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CompletePayment(context.Background(), order, "pay_1"); err != nil {
		t.Fatal(err)
	}

	rows, err := s.MarkAbandoned(context.Background(), order, "late signal")
	if err != nil {
		t.Fatalf("mark abandoned: %v", err)
	}
	if rows != 0 {
		t.Fatal("completed attendee must not be downgraded")
	}
}
