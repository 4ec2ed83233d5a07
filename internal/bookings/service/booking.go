package service

import (
	"context"
	"errors"

	bookingserrors "devevents/internal/bookings/errors"
	"devevents/internal/bookings/repository"
	"devevents/internal/bookings/validator"
	"devevents/pkg/config"
	apperrors "devevents/pkg/errors"
	"devevents/pkg/model"
	"devevents/pkg/publisher"
	"devevents/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Delete(ctx context.Context, id string) error
}

// EventChecker reports whether a referenced event exists.
type EventChecker interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	events    EventChecker
	validator *validator.BookingValidator
	publisher publisher.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	events EventChecker,
	validator *validator.BookingValidator,
	pub publisher.Publisher,
	cfg *config.Config,
) BookingService {
	if pub == nil {
		pub = publisher.NopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		events:    events,
		validator: validator,
		publisher: pub,
		cfg:       cfg,
	}
}

// Create trims and validates the booking, checks that its event exists and
// only then inserts it. The event may still be deleted between the check
// and the insert.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return apperrors.InvalidInput("Booking cannot be empty")
	}
	booking.ID = ""
	booking.Email = sanitizer.NormalizeEmail(booking.Email)
	booking.EventID = sanitizer.TrimText(booking.EventID)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "event_id", booking.EventID, "error", err)
		return err
	}

	exists, err := s.events.ExistsByID(ctx, booking.EventID)
	if err != nil {
		s.cfg.Log.Error("Failed to check event existence", "event_id", booking.EventID, "error", err)
		return s.storeError(err, "Failed to check event existence")
	}
	if !exists {
		s.cfg.Log.Warn("Booking references a missing event", "event_id", booking.EventID)
		return apperrors.NewReferenceError("eventId", "event does not exist")
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "event_id", booking.EventID, "error", err)
		return s.storeError(err, "Failed to create booking")
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"event_id", booking.EventID,
	)
	s.publish(ctx, publisher.BookingCreated, booking.ID, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, s.storeError(err, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return s.page(ctx,
		s.repo.Count,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindAll(ctx, limit, offset)
		},
	)
}

// ListByEvent pages through the bookings of one event. An unknown event is
// reported as not found rather than as an empty page.
func (s *bookingService) ListByEvent(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if eventID == "" {
		return nil, 0, apperrors.InvalidInput("Event ID cannot be empty")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	exists, err := s.events.ExistsByID(ctx, eventID)
	if err != nil {
		return nil, 0, s.storeError(err, "Failed to check event existence")
	}
	if !exists {
		return nil, 0, apperrors.NotFoundWithID("Event", eventID)
	}

	return s.page(ctx,
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByEventID(ctx, eventID)
		},
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByEventID(ctx, eventID, limit, offset)
		},
	)
}

func (s *bookingService) page(
	ctx context.Context,
	countFn func(context.Context) (int64, error),
	findFn func(context.Context) ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var (
		count    int64
		bookings []*model.Booking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = countFn(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			return s.storeError(err, "Failed to count bookings")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = findFn(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", err)
			return s.storeError(err, "Failed to retrieve bookings")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return s.storeError(err, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	s.publish(ctx, publisher.BookingDeleted, id, map[string]any{"id": id})
	return nil
}

func (s *bookingService) storeError(err error, message string) error {
	if apperrors.IsClassified(err) {
		return err
	}
	return apperrors.Internal(message, err)
}

func (s *bookingService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		s.cfg.Log.Error("Failed to publish domain event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
