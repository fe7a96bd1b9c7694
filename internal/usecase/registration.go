package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/domain"
	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/repository"
)

// RegistrationService creates attendee records ahead of checkout. The
// payment core never deletes them; it only moves their payment state.
type RegistrationService struct {
	store repository.Store
	now   func() time.Time
}

func NewRegistrationService(store repository.Store) *RegistrationService {
	return &RegistrationService{store: store, now: time.Now}
}

type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Org        string
	TicketType domain.TicketType
}

func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*domain.Attendee, error) {
	if !in.TicketType.Valid() {
		return nil, domain.ErrInvalidTicketType
	}

	attendee := &domain.Attendee{
		ID:            uuid.New().String(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Org:           in.Org,
		TicketType:    in.TicketType,
		PaymentStatus: domain.PaymentPending,
		HasPaid:       false,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateAttendee(ctx, attendee); err != nil {
		return nil, err
	}
	return attendee, nil
}

func (s *RegistrationService) List(ctx context.Context) ([]domain.Attendee, error) {
	return s.store.ListAttendees(ctx)
}
