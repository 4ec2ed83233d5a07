package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "devevents/internal/bookings/errors"
	"devevents/pkg/config"
	mongotx "devevents/pkg/db/mongo"
	"devevents/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// bookingDocument is the stored shape. The event reference is kept as an
// ObjectID so it can be joined and indexed against Events._id.
type bookingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   primitive.ObjectID `bson:"eventId"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *bookingDocument) toModel() *model.Booking {
	return &model.Booking{
		ID:        d.ID.Hex(),
		EventID:   d.EventID.Hex(),
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoBookingRepository struct {
	cfg  *config.Config
	conn mongotx.Connector
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	FindByEventID(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByEventID(ctx context.Context, eventID string) (int64, error)
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return &mongoBookingRepository{
		cfg:  cfg,
		conn: cfg.Client,
	}
}

func (r *mongoBookingRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return mongotx.Collection(ctx, r.conn, r.cfg.MongoDatabaseName, CollectionName)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	eventID, err := primitive.ObjectIDFromHex(booking.EventID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, booking.EventID)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := bookingDocument{
		EventID:   eventID,
		Email:     booking.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var doc bookingDocument
	err = coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return doc.toModel(), nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoBookingRepository) FindByEventID(ctx context.Context, eventID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, eventID)
	}

	return r.find(ctx, bson.M{"eventId": objectID}, limit, offset)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toModel())
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *mongoBookingRepository) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, eventID)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{"eventId": objectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by event: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

// DeleteByEventID removes every booking of an event and returns how many
// were removed.
func (r *mongoBookingRepository) DeleteByEventID(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, eventID)
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	result, err := coll.DeleteMany(ctx, bson.M{"eventId": objectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings by event: %w", err)
	}
	return result.DeletedCount, nil
}
