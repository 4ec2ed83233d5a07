package service

import (
	"context"
	"errors"

	eventserrors "devevents/internal/events/errors"
	"devevents/internal/events/repository"
	"devevents/internal/events/validator"
	"devevents/pkg/cache"
	"devevents/pkg/config"
	apperrors "devevents/pkg/errors"
	"devevents/pkg/model"
	"devevents/pkg/publisher"
	"devevents/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error)
	Update(ctx context.Context, id string, updates *model.EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

// BookingCleaner removes the bookings of a deleted event.
type BookingCleaner interface {
	DeleteByEventID(ctx context.Context, eventID string) (int64, error)
}

type eventService struct {
	repo      repository.EventRepository
	bookings  BookingCleaner
	validator *validator.EventValidator
	cache     cache.EventCache
	publisher publisher.Publisher
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	bookings BookingCleaner,
	validator *validator.EventValidator,
	eventCache cache.EventCache,
	pub publisher.Publisher,
	cfg *config.Config,
) EventService {
	if eventCache == nil {
		eventCache = cache.NopEventCache{}
	}
	if pub == nil {
		pub = publisher.NopPublisher{}
	}
	return &eventService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cache:     eventCache,
		publisher: pub,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	if event == nil {
		return apperrors.InvalidInput("Event cannot be empty")
	}
	event.ID = ""

	if err := s.validator.ValidateAndNormalize(event, true); err != nil {
		s.cfg.Log.Warn("Event validation failed", "error", err)
		return err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event", "slug", event.Slug, "error", err)
		return s.storeError(err, "Failed to create event")
	}

	s.cfg.Log.Info("Event created successfully",
		"id", event.ID,
		"slug", event.Slug,
		"date", event.Date,
	)
	s.publish(ctx, publisher.EventCreated, event.ID, event)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id, "Failed to retrieve event")
	}
	return event, nil
}

// GetBySlug reads through the event cache. Cache failures fall back to the
// store.
func (s *eventService) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("Event slug cannot be empty")
	}

	cached, err := s.cache.Get(ctx, slug)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.cfg.Log.Warn("Event cache read failed", "slug", slug, "error", err)
	}

	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Event").WithDetails(map[string]any{"slug": slug})
		}
		return nil, s.storeError(err, "Failed to retrieve event")
	}

	if err := s.cache.Set(ctx, event); err != nil {
		s.cfg.Log.Warn("Event cache write failed", "slug", slug, "error", err)
	}
	return event, nil
}

func (s *eventService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count  int64
		events []*model.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count events", "error", err)
			return s.storeError(err, "Failed to count events")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.repo.FindAll(gctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list events", "error", err)
			return s.storeError(err, "Failed to retrieve events")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

func (s *eventService) Update(ctx context.Context, id string, updates *model.EventUpdate) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Update cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id, "Failed to check event existence")
	}
	previousSlug := existing.Slug

	merged, titleModified := mergeEventUpdates(existing, updates)
	if err := s.validator.ValidateAndNormalize(merged, titleModified); err != nil {
		s.cfg.Log.Warn("Event update validation failed", "id", id, "error", err)
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		s.cfg.Log.Error("Failed to update event", "id", id, "error", err)
		return nil, s.storeError(err, "Failed to update event")
	}

	s.evict(ctx, previousSlug, merged.Slug)
	s.cfg.Log.Info("Event updated successfully", "id", id, "slug", merged.Slug)
	s.publish(ctx, publisher.EventUpdated, id, merged)
	return merged, nil
}

// Delete removes the event and then its bookings. The two writes are not
// atomic: if the booking cleanup fails the event stays deleted and the
// orphaned bookings are logged.
func (s *eventService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(err, id, "Failed to check event existence")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", id)
		}
		s.cfg.Log.Error("Failed to delete event", "id", id, "error", err)
		return s.storeError(err, "Failed to delete event")
	}

	var removedBookings int64
	if s.bookings != nil {
		n, err := s.bookings.DeleteByEventID(ctx, id)
		if err != nil {
			s.cfg.Log.Error("Failed to delete bookings of deleted event", "event_id", id, "error", err)
		}
		removedBookings = n
	}

	s.evict(ctx, existing.Slug)
	s.cfg.Log.Info("Event deleted successfully", "id", id, "bookings_removed", removedBookings)
	s.publish(ctx, publisher.EventDeleted, id, map[string]any{
		"id":              id,
		"slug":            existing.Slug,
		"bookingsRemoved": removedBookings,
	})
	return nil
}

// mergeEventUpdates applies non-nil update fields onto a copy of existing.
// The title counts as modified only when its trimmed value changes.
func mergeEventUpdates(existing *model.Event, updates *model.EventUpdate) (*model.Event, bool) {
	merged := *existing
	titleModified := false

	if updates.Title != nil {
		title := sanitizer.TrimText(*updates.Title)
		titleModified = title != existing.Title
		merged.Title = title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Overview != nil {
		merged.Overview = *updates.Overview
	}
	if updates.Image != nil {
		merged.Image = *updates.Image
	}
	if updates.Venue != nil {
		merged.Venue = *updates.Venue
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Date != nil {
		merged.Date = *updates.Date
	}
	if updates.Time != nil {
		merged.Time = *updates.Time
	}
	if updates.Mode != nil {
		merged.Mode = *updates.Mode
	}
	if updates.Audience != nil {
		merged.Audience = *updates.Audience
	}
	if updates.Agenda != nil {
		merged.Agenda = append([]string(nil), (*updates.Agenda)...)
	}
	if updates.Organizer != nil {
		merged.Organizer = *updates.Organizer
	}
	if updates.Tags != nil {
		merged.Tags = append([]string(nil), (*updates.Tags)...)
	}

	return &merged, titleModified
}

func (s *eventService) lookupError(err error, id, message string) error {
	if errors.Is(err, eventserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Event", id)
	}
	if errors.Is(err, eventserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid event ID format")
	}
	return s.storeError(err, message)
}

func (s *eventService) storeError(err error, message string) error {
	if apperrors.IsClassified(err) {
		return err
	}
	return apperrors.Internal(message, err)
}

func (s *eventService) evict(ctx context.Context, slugs ...string) {
	if err := s.cache.Delete(ctx, slugs...); err != nil {
		s.cfg.Log.Warn("Event cache eviction failed", "slugs", slugs, "error", err)
	}
}

func (s *eventService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		s.cfg.Log.Error("Failed to publish domain event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}
