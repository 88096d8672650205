package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

type membershipService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewMembershipService creates a MembershipService. emailService may be
// nil; join confirmations are then skipped.
func NewMembershipService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.MembershipService {
	return &membershipService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *membershipService) Join(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// The caller is authenticated upstream, but the user record is
	// re-resolved here because name and mail are snapshotted into the
	// attendee record.
	user, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	att := domain.NewAttendee(user.ID, user.Name, user.Email, time.Now())
	event, err := s.eventRepo.AddAttendee(ctx, eventID, att)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrAlreadyJoined),
			errors.Is(err, domain.ErrEventFull):
			return nil, err
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}

	if s.emailService != nil {
		data := &domain.JoinConfirmationEmailData{
			Email:         user.Email,
			Name:          user.Name,
			EventTitle:    event.Title,
			EventDate:     event.Date,
			EventTime:     event.Time,
			EventLocation: event.Location,
		}
		// Confirmation failure does not undo the join.
		if err := s.emailService.SendJoinConfirmation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "join confirmation email failed",
				"event_id", eventID, "user_id", callerID, "err", err)
		}
	}
	return event, nil
}

func (s *membershipService) Leave(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.RemoveAttendee(ctx, eventID, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNotJoined) {
			return nil, err
		}
		return nil, fmt.Errorf("remove attendee: %w", err)
	}
	return event, nil
}

func (s *membershipService) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Attendees == nil {
		return []*domain.Attendee{}, nil
	}
	return event.Attendees, nil
}

func (s *membershipService) ListAttendingEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByAttendeeID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attending events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
