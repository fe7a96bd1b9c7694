package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
)

// queries holds the hand-written SQL. db is either the pool or a
// transaction, so the same methods serve Store and Querier.
type queries struct {
	db dbtx
}

const attendeeColumns = `id, first_name, last_name, email, org, ticket_type,
	payment_status, has_paid, provider_order_id, provider_payment_id,
	payment_feedback, created_at`

func scanAttendee(row pgx.Row) (*domain.Attendee, error) {
	var a domain.Attendee
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Org, &a.TicketType,
		&a.PaymentStatus, &a.HasPaid, &a.ProviderOrderID, &a.ProviderPaymentID,
		&a.PaymentFeedback, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan attendee: %w", err)
	}
	return &a, nil
}

func (q queries) CreateAttendee(ctx context.Context, a *domain.Attendee) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO attendees (id, first_name, last_name, email, org, ticket_type, payment_status, has_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.FirstName, a.LastName, a.Email, a.Org, a.TicketType, a.PaymentStatus, a.HasPaid, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create attendee: %w", err)
	}
	return nil
}

func (q queries) GetAttendee(ctx context.Context, id string) (*domain.Attendee, error) {
	row := q.db.QueryRow(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE id = $1`, id)
	return scanAttendee(row)
}

func (q queries) GetAttendeeByOrderID(ctx context.Context, orderID string) (*domain.Attendee, error) {
	row := q.db.QueryRow(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE provider_order_id = $1`, orderID)
	return scanAttendee(row)
}

func (q queries) ListAttendees(ctx context.Context) ([]domain.Attendee, error) {
	rows, err := q.db.Query(ctx, `SELECT `+attendeeColumns+` FROM attendees ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var out []domain.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (q queries) BindProviderOrder(ctx context.Context, attendeeID, orderID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE attendees SET provider_order_id = $2
		WHERE id = $1 AND provider_order_id IS NULL`,
		attendeeID, orderID,
	)
	if err != nil {
		return 0, fmt.Errorf("bind provider order: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q queries) CompletePayment(ctx context.Context, orderID, paymentID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE attendees
		SET has_paid = TRUE, payment_status = $3, provider_payment_id = $2
		WHERE provider_order_id = $1 AND payment_status <> $3`,
		orderID, paymentID, domain.PaymentCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("complete payment: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q queries) MarkAbandoned(ctx context.Context, orderID, feedback string) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE attendees
		SET payment_status = $3, payment_feedback = $2
		WHERE provider_order_id = $1 AND payment_status <> $4`,
		orderID, feedback, domain.PaymentAbandoned, domain.PaymentCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("mark abandoned: %w", err)
	}
	return tag.RowsAffected(), nil
}

const couponColumns = `code, discount_type, discount_value, is_active, valid_until, max_uses, used_count, created_at`

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.Code, &c.DiscountType, &c.DiscountValue, &c.IsActive,
		&c.ValidUntil, &c.MaxUses, &c.UsedCount, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan coupon: %w", err)
	}
	return &c, nil
}

func (q queries) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO coupons (code, discount_type, discount_value, is_active, valid_until, max_uses, used_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.Code, c.DiscountType, c.DiscountValue, c.IsActive, c.ValidUntil, c.MaxUses, c.UsedCount, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (q queries) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	row := q.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)
	return scanCoupon(row)
}

func (q queries) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := q.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var out []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (q queries) SetCouponActive(ctx context.Context, code string, active bool) (*domain.Coupon, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE coupons SET is_active = $2 WHERE code = $1
		RETURNING `+couponColumns, code, active)
	return scanCoupon(row)
}

func (q queries) RedeemCoupon(ctx context.Context, code string) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE coupons SET used_count = used_count + 1
		WHERE code = $1 AND used_count < max_uses`,
		code,
	)
	if err != nil {
		return 0, fmt.Errorf("redeem coupon: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q queries) InsertExitFeedback(ctx context.Context, f *domain.ExitFeedback) error {
	row := q.db.QueryRow(ctx, `
		INSERT INTO exit_feedback (email, ticket_type, abandon_reason, additional_notes, was_offered_coupon, accepted_coupon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		f.Email, f.TicketType, f.AbandonReason, f.AdditionalNotes, f.WasOfferedCoupon, f.AcceptedCoupon, f.CreatedAt,
	)
	if err := row.Scan(&f.ID); err != nil {
		return fmt.Errorf("insert exit feedback: %w", err)
	}
	return nil
}

func (q queries) ListExitFeedback(ctx context.Context) ([]domain.ExitFeedback, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, email, ticket_type, abandon_reason, additional_notes, was_offered_coupon, accepted_coupon, created_at
		FROM exit_feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list exit feedback: %w", err)
	}
	defer rows.Close()

	var out []domain.ExitFeedback
	for rows.Next() {
		var f domain.ExitFeedback
		if err := rows.Scan(&f.ID, &f.Email, &f.TicketType, &f.AbandonReason, &f.AdditionalNotes,
			&f.WasOfferedCoupon, &f.AcceptedCoupon, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exit feedback: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
