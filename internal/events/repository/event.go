package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventserrors "devevents/internal/events/errors"
	"devevents/pkg/config"
	mongotx "devevents/pkg/db/mongo"
	"devevents/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Events"
)

type mongoEventRepository struct {
	cfg  *config.Config
	conn mongotx.Connector
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error)
	Update(ctx context.Context, id string, event *model.Event) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	return &mongoEventRepository{
		cfg:  cfg,
		conn: cfg.Client,
	}
}

func (r *mongoEventRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return mongotx.Collection(ctx, r.conn, r.cfg.MongoDatabaseName, CollectionName)
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	event.CreatedAt = now
	event.UpdatedAt = now

	result, err := coll.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return mongotx.TranslateDuplicateKey(err, CollectionName, "slug", event.Slug)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoEventRepository) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoEventRepository) findOne(ctx context.Context, filter bson.M) (*model.Event, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = coll.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

func (r *mongoEventRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*model.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

func (r *mongoEventRepository) Update(ctx context.Context, id string, event *model.Event) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	event.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"slug":        event.Slug,
			"description": event.Description,
			"overview":    event.Overview,
			"image":       event.Image,
			"venue":       event.Venue,
			"location":    event.Location,
			"date":        event.Date,
			"time":        event.Time,
			"mode":        event.Mode,
			"audience":    event.Audience,
			"agenda":      event.Agenda,
			"organizer":   event.Organizer,
			"tags":        event.Tags,
			"updatedAt":   event.UpdatedAt,
		},
	}

	result, err := coll.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return mongotx.TranslateDuplicateKey(err, CollectionName, "slug", event.Slug)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}

	if result.MatchedCount == 0 {
		return eventserrors.ErrNotFound
	}

	return nil
}

func (r *mongoEventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.DeletedCount == 0 {
		return eventserrors.ErrNotFound
	}

	return nil
}

// ExistsByID reports whether an event with the given identity is stored.
// A malformed id cannot match any event and yields false.
func (r *mongoEventRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}

	return count > 0, nil
}

func (r *mongoEventRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return count, nil
}
