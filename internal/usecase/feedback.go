package usecase

import (
	"context"
	"math"
	"time"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/repository"
)

// FeedbackService records checkout-abandonment reasons and summarizes
// them for the organizers.
type FeedbackService struct {
	store repository.Store
	now   func() time.Time
}

func NewFeedbackService(store repository.Store) *FeedbackService {
	return &FeedbackService{store: store, now: time.Now}
}

type ExitFeedbackInput struct {
	Email            string
	TicketType       string
	AbandonReason    domain.AbandonReason
	AdditionalNotes  string
	WasOfferedCoupon bool
	AcceptedCoupon   bool
}

// Record appends one abandonment event. The reason is the only required
// field; a missing or unrecognized value is rejected, everything else
// is accepted as-is.
func (s *FeedbackService) Record(ctx context.Context, in ExitFeedbackInput) (*domain.ExitFeedback, error) {
	if !in.AbandonReason.Valid() {
		return nil, domain.ErrMissingAbandonReason
	}

	feedback := &domain.ExitFeedback{
		Email:            in.Email,
		TicketType:       in.TicketType,
		AbandonReason:    in.AbandonReason,
		AdditionalNotes:  in.AdditionalNotes,
		WasOfferedCoupon: in.WasOfferedCoupon,
		AcceptedCoupon:   in.AcceptedCoupon,
		CreatedAt:        s.now(),
	}
	if err := s.store.InsertExitFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// List returns all recorded feedback, newest first, with its summary.
func (s *FeedbackService) List(ctx context.Context) ([]domain.ExitFeedback, *domain.FeedbackStats, error) {
	feedbacks, err := s.store.ListExitFeedback(ctx)
	if err != nil {
		return nil, nil, err
	}
	return feedbacks, summarize(feedbacks), nil
}

// Summarize computes per-reason counts and the coupon acceptance rate.
func (s *FeedbackService) Summarize(ctx context.Context) (*domain.FeedbackStats, error) {
	feedbacks, err := s.store.ListExitFeedback(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(feedbacks), nil
}

func summarize(feedbacks []domain.ExitFeedback) *domain.FeedbackStats {
	stats := &domain.FeedbackStats{Total: len(feedbacks)}
	for _, f := range feedbacks {
		switch f.AbandonReason {
		case domain.ReasonPriceHigh:
			stats.PriceHigh++
		case domain.ReasonNotReady:
			stats.NotReady++
		case domain.ReasonNeedApproval:
			stats.NeedApproval++
		case domain.ReasonTechnicalIssue:
			stats.TechnicalIssue++
		case domain.ReasonOther:
			stats.Other++
		}
		if f.WasOfferedCoupon {
			stats.CouponsOffered++
		}
		if f.AcceptedCoupon {
			stats.CouponsAccepted++
		}
	}
	if stats.CouponsOffered > 0 {
		stats.AcceptanceRate = int(math.Round(float64(stats.CouponsAccepted) / float64(stats.CouponsOffered) * 100))
	}
	return stats
}
