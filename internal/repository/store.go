package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row, regardless of
// backing implementation.
var ErrNotFound = errors.New("record not found")

// Querier is the subset of operations valid inside a transaction.
// Both mutating operations are conditional updates: a zero rows-affected
// result means the guard failed, not that the statement errored.
type Querier interface {
	// RedeemCoupon consumes one use of the coupon. The usedCount <
	// maxUses guard lives in the statement itself so two concurrent
	// redemptions can never both succeed on the last use.
	RedeemCoupon(ctx context.Context, code string) (int64, error)
	// BindProviderOrder sets the provider order id on an attendee that
	// does not have one yet.
	BindProviderOrder(ctx context.Context, attendeeID, orderID string) (int64, error)
}

// Store is the persistence boundary for the payment core. Constructed
// explicitly and injected into services so tests can substitute the
// in-memory implementation.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error

	CreateAttendee(ctx context.Context, a *domain.Attendee) error
	GetAttendee(ctx context.Context, id string) (*domain.Attendee, error)
	GetAttendeeByOrderID(ctx context.Context, orderID string) (*domain.Attendee, error)
	ListAttendees(ctx context.Context) ([]domain.Attendee, error)
	// CompletePayment transitions the attendee owning the order to
	// COMPLETED unless it already is. Returns rows affected.
	CompletePayment(ctx context.Context, orderID, paymentID string) (int64, error)
	// MarkAbandoned sets ABANDONED and the feedback text, guarded so a
	// COMPLETED attendee is never downgraded. Returns rows affected.
	MarkAbandoned(ctx context.Context, orderID, feedback string) (int64, error)

	CreateCoupon(ctx context.Context, c *domain.Coupon) error
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	SetCouponActive(ctx context.Context, code string, active bool) (*domain.Coupon, error)

	InsertExitFeedback(ctx context.Context, f *domain.ExitFeedback) error
	ListExitFeedback(ctx context.Context) ([]domain.ExitFeedback, error)
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	pool *pgxpool.Pool
	queries
}

// New builds the PostgreSQL-backed store.
func New(pool *pgxpool.Pool) Store {
	return &store{
		pool:    pool,
		queries: queries{db: pool},
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := queries{db: tx}
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
