package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	eventserrors "devevents/internal/events/errors"
	"devevents/internal/events/validator"
	"devevents/pkg/cache"
	"devevents/pkg/config"
	apperrors "devevents/pkg/errors"
	"devevents/pkg/logger"
	"devevents/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockEventRepository struct {
	createFunc     func(ctx context.Context, event *model.Event) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Event, error)
	findBySlugFunc func(ctx context.Context, slug string) (*model.Event, error)
	findAllFunc    func(ctx context.Context, limit int, offset int64) ([]*model.Event, error)
	updateFunc     func(ctx context.Context, id string, event *model.Event) error
	deleteFunc     func(ctx context.Context, id string) error
	countFunc      func(ctx context.Context) (int64, error)

	mu          sync.Mutex
	createCalls int
	updateCalls int
	slugLookups int
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.Event) error {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	event.ID = "665f1c2b9d3e4a0012345678"
	return nil
}

func (m *mockEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, eventserrors.ErrNotFound
}

func (m *mockEventRepository) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	m.mu.Lock()
	m.slugLookups++
	m.mu.Unlock()
	if m.findBySlugFunc != nil {
		return m.findBySlugFunc(ctx, slug)
	}
	return nil, eventserrors.ErrNotFound
}

func (m *mockEventRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Event{}, nil
}

func (m *mockEventRepository) Update(ctx context.Context, id string, event *model.Event) error {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, event)
	}
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEventRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockBookingCleaner struct {
	deletedFor []string
	err        error
}

func (m *mockBookingCleaner) DeleteByEventID(ctx context.Context, eventID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.deletedFor = append(m.deletedFor, eventID)
	return 3, nil
}

type mockEventCache struct {
	entries map[string]*model.Event
	evicted []string
	getErr  error
}

func newMockEventCache() *mockEventCache {
	return &mockEventCache{entries: map[string]*model.Event{}}
}

func (m *mockEventCache) Get(ctx context.Context, slug string) (*model.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if e, ok := m.entries[slug]; ok {
		return e, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockEventCache) Set(ctx context.Context, event *model.Event) error {
	m.entries[event.Slug] = event
	return nil
}

func (m *mockEventCache) Delete(ctx context.Context, slugs ...string) error {
	m.evicted = append(m.evicted, slugs...)
	for _, s := range slugs {
		delete(m.entries, s)
	}
	return nil
}

type publishedEvent struct {
	eventType string
	key       string
}

type mockPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedEvent{eventType, key})
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

const eventID = "665f1c2b9d3e4a0012345678"

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard()}
}

func newEvent() *model.Event {
	return &model.Event{
		Title:       "Go Meetup Berlin",
		Description: "Monthly Go meetup.",
		Overview:    "Talks and pizza.",
		Image:       "/images/go.png",
		Venue:       "c-base",
		Location:    "Berlin",
		Date:        "2025-03-12",
		Time:        "7pm",
		Mode:        "offline",
		Audience:    "Gophers",
		Agenda:      []string{"Talk 1", "Talk 2"},
		Organizer:   "Go Berlin",
		Tags:        []string{"go"},
	}
}

func storedEvent() *model.Event {
	e := newEvent()
	e.ID = eventID
	e.Slug = "go-meetup-berlin"
	e.Date = "2025-03-12T00:00:00.000Z"
	e.Time = "19:00"
	return e
}

func newTestService(repo *mockEventRepository, c *mockEventCache, pub *mockPublisher, cleaner *mockBookingCleaner) EventService {
	log := logger.Discard()
	var bc BookingCleaner
	if cleaner != nil {
		bc = cleaner
	}
	return NewEventService(repo, bc, validator.NewEventValidator(log), c, pub, testConfig())
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_NormalizesAndPublishes(t *testing.T) {
	repo := &mockEventRepository{}
	pub := &mockPublisher{}
	svc := newTestService(repo, newMockEventCache(), pub, nil)

	event := newEvent()
	event.ID = "client-supplied"
	if err := svc.Create(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Slug != "go-meetup-berlin" {
		t.Errorf("expected slug go-meetup-berlin, got %q", event.Slug)
	}
	if event.Date != "2025-03-12T00:00:00.000Z" {
		t.Errorf("unexpected date %q", event.Date)
	}
	if event.Time != "19:00" {
		t.Errorf("unexpected time %q", event.Time)
	}
	if event.ID != eventID {
		t.Errorf("expected repository-assigned id, got %q", event.ID)
	}
	if len(pub.published) != 1 || pub.published[0].eventType != "event.created" {
		t.Errorf("expected one event.created, got %+v", pub.published)
	}
}

func TestCreate_ValidationFailureSkipsWrite(t *testing.T) {
	repo := &mockEventRepository{}
	pub := &mockPublisher{}
	svc := newTestService(repo, newMockEventCache(), pub, nil)

	event := newEvent()
	event.Time = "25:00"
	err := svc.Create(context.Background(), event)

	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "time" {
		t.Fatalf("expected ValidationError on time, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Errorf("expected no write, got %d create calls", repo.createCalls)
	}
	if len(pub.published) != 0 {
		t.Errorf("expected nothing published, got %+v", pub.published)
	}
}

func TestCreate_DuplicateSlugSurfacesUniqueConstraint(t *testing.T) {
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *model.Event) error {
			return &apperrors.UniqueConstraintError{Collection: "Events", Field: "slug", Value: event.Slug}
		},
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	err := svc.Create(context.Background(), newEvent())

	var uniqueErr *apperrors.UniqueConstraintError
	if !errors.As(err, &uniqueErr) {
		t.Fatalf("expected UniqueConstraintError, got %T: %v", err, err)
	}
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		t.Error("conflict must not be reported as a validation error")
	}
}

func TestCreate_PublishFailureDoesNotFail(t *testing.T) {
	svc := newTestService(&mockEventRepository{}, newMockEventCache(), &mockPublisher{err: errors.New("broker down")}, nil)

	if err := svc.Create(context.Background(), newEvent()); err != nil {
		t.Fatalf("publish failure leaked into create: %v", err)
	}
}

func TestCreate_ConnectErrorPassesThrough(t *testing.T) {
	connErr := &apperrors.ConnectError{Err: errors.New("connection refused")}
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *model.Event) error { return connErr },
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	err := svc.Create(context.Background(), newEvent())
	if !errors.Is(err, connErr) {
		t.Fatalf("expected ConnectError to pass through, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────

func TestUpdate_TitleUnchangedKeepsSlug(t *testing.T) {
	existing := storedEvent()
	existing.Slug = "custom-slug"

	var saved *model.Event
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return existing, nil },
		updateFunc: func(ctx context.Context, id string, event *model.Event) error {
			saved = event
			return nil
		},
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	sameTitle := "  Go Meetup Berlin "
	venue := "Betahaus"
	updated, err := svc.Update(context.Background(), eventID, &model.EventUpdate{Title: &sameTitle, Venue: &venue})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil || saved.Slug != "custom-slug" {
		t.Fatalf("expected slug to be kept, saved %+v", saved)
	}
	if updated.Venue != "Betahaus" {
		t.Errorf("expected venue update, got %q", updated.Venue)
	}
	if existing.Venue != "c-base" {
		t.Error("existing record was mutated")
	}
}

func TestUpdate_TitleChangeRederivesSlugAndEvicts(t *testing.T) {
	c := newMockEventCache()
	c.entries["go-meetup-berlin"] = storedEvent()

	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return storedEvent(), nil },
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, c, pub, nil)

	title := "Go Meetup Hamburg"
	updated, err := svc.Update(context.Background(), eventID, &model.EventUpdate{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Slug != "go-meetup-hamburg" {
		t.Errorf("expected re-derived slug, got %q", updated.Slug)
	}
	if _, ok := c.entries["go-meetup-berlin"]; ok {
		t.Error("expected old slug to be evicted")
	}
	if len(pub.published) != 1 || pub.published[0].eventType != "event.updated" {
		t.Errorf("expected event.updated, got %+v", pub.published)
	}
}

func TestUpdate_SlugCollisionSurfacesUniqueConstraint(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return storedEvent(), nil },
		updateFunc: func(ctx context.Context, id string, event *model.Event) error {
			return &apperrors.UniqueConstraintError{Collection: "Events", Field: "slug", Value: event.Slug}
		},
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	title := "Existing Conference"
	_, err := svc.Update(context.Background(), eventID, &model.EventUpdate{Title: &title})

	var uniqueErr *apperrors.UniqueConstraintError
	if !errors.As(err, &uniqueErr) {
		t.Fatalf("expected UniqueConstraintError, got %v", err)
	}
	if uniqueErr.Value != "existing-conference" {
		t.Errorf("unexpected conflicting value %q", uniqueErr.Value)
	}
}

func TestUpdate_InvalidDateRejected(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return storedEvent(), nil },
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	date := "not-a-date"
	_, err := svc.Update(context.Background(), eventID, &model.EventUpdate{Date: &date})

	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "date" {
		t.Fatalf("expected ValidationError on date, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("expected no write, got %d", repo.updateCalls)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(&mockEventRepository{}, newMockEventCache(), &mockPublisher{}, nil)

	_, err := svc.Update(context.Background(), eventID, &model.EventUpdate{})
	appErr := apperrors.ToAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Reads
// ────────────────────────────────────────────────

func TestGetByID_InvalidID(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return nil, eventserrors.ErrInvalidID
		},
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	_, err := svc.GetByID(context.Background(), "xyz")
	if apperrors.ToAppError(err).Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestGetBySlug_ReadThroughCache(t *testing.T) {
	repo := &mockEventRepository{
		findBySlugFunc: func(ctx context.Context, slug string) (*model.Event, error) { return storedEvent(), nil },
	}
	c := newMockEventCache()
	svc := newTestService(repo, c, &mockPublisher{}, nil)

	for i := 0; i < 3; i++ {
		event, err := svc.GetBySlug(context.Background(), "go-meetup-berlin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.ID != eventID {
			t.Errorf("unexpected event %+v", event)
		}
	}

	if repo.slugLookups != 1 {
		t.Errorf("expected one store lookup, got %d", repo.slugLookups)
	}
}

func TestGetBySlug_CacheErrorFallsBackToStore(t *testing.T) {
	repo := &mockEventRepository{
		findBySlugFunc: func(ctx context.Context, slug string) (*model.Event, error) { return storedEvent(), nil },
	}
	c := newMockEventCache()
	c.getErr = errors.New("redis: connection refused")
	svc := newTestService(repo, c, &mockPublisher{}, nil)

	if _, err := svc.GetBySlug(context.Background(), "go-meetup-berlin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.slugLookups != 1 {
		t.Errorf("expected store lookup, got %d", repo.slugLookups)
	}
}

func TestGetAll_ConcurrentCountAndPage(t *testing.T) {
	var gotLimit int
	repo := &mockEventRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 42, nil },
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
			gotLimit = limit
			return []*model.Event{storedEvent()}, nil
		},
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	events, total, err := svc.GetAll(context.Background(), 1000, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 42 || len(events) != 1 {
		t.Errorf("expected 42/1, got %d/%d", total, len(events))
	}
	if gotLimit != config.DefaultPaginationLimit {
		t.Errorf("expected limit capped to %d, got %d", config.DefaultPaginationLimit, gotLimit)
	}
}

func TestGetAll_CountError(t *testing.T) {
	repo := &mockEventRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 0, errors.New("boom") },
	}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, nil)

	_, _, err := svc.GetAll(context.Background(), 10, 0)
	if apperrors.ToAppError(err).Code != apperrors.CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Delete
// ────────────────────────────────────────────────

func TestDelete_CascadesBookings(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return storedEvent(), nil },
	}
	c := newMockEventCache()
	pub := &mockPublisher{}
	cleaner := &mockBookingCleaner{}
	svc := newTestService(repo, c, pub, cleaner)

	if err := svc.Delete(context.Background(), eventID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cleaner.deletedFor) != 1 || cleaner.deletedFor[0] != eventID {
		t.Errorf("expected bookings of %s removed, got %v", eventID, cleaner.deletedFor)
	}
	if len(c.evicted) != 1 || c.evicted[0] != "go-meetup-berlin" {
		t.Errorf("expected slug eviction, got %v", c.evicted)
	}
	if len(pub.published) != 1 || pub.published[0].eventType != "event.deleted" {
		t.Errorf("expected event.deleted, got %+v", pub.published)
	}
}

func TestDelete_BookingCleanupFailureKeepsEventDeleted(t *testing.T) {
	deleted := false
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return storedEvent(), nil },
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, newMockEventCache(), pub, &mockBookingCleaner{err: errors.New("write conflict")})

	if err := svc.Delete(context.Background(), eventID); err != nil {
		t.Fatalf("expected success once the event is gone, got %v", err)
	}
	if !deleted {
		t.Error("expected event delete to run first")
	}
	if len(pub.published) != 1 {
		t.Errorf("expected event.deleted to be published, got %+v", pub.published)
	}
}

func TestDelete_EventStoreFailureSkipsCleanup(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) { return storedEvent(), nil },
		deleteFunc: func(ctx context.Context, id string) error {
			return &apperrors.ConnectError{Err: errors.New("refused")}
		},
	}
	cleaner := &mockBookingCleaner{}
	svc := newTestService(repo, newMockEventCache(), &mockPublisher{}, cleaner)

	err := svc.Delete(context.Background(), eventID)
	var connectErr *apperrors.ConnectError
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
	if len(cleaner.deletedFor) != 0 {
		t.Error("bookings must stay when the event was not deleted")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockEventRepository{}, newMockEventCache(), &mockPublisher{}, &mockBookingCleaner{})

	err := svc.Delete(context.Background(), eventID)
	if apperrors.ToAppError(err).Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
