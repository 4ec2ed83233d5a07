package client

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "devevents/pkg/errors"
	"devevents/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const connectKey = "mongo"

// Dialer opens and verifies a connection to the store.
type Dialer func(ctx context.Context, uri string) (*mongo.Client, error)

type Option func(*MongoClient)

// WithDialer replaces the driver dialer, mainly for tests.
func WithDialer(d Dialer) Option {
	return func(c *MongoClient) {
		c.dial = d
	}
}

// MongoClient memoizes a single *mongo.Client for the lifetime of the
// process. At most one dial is in flight at any time; concurrent callers
// share its result. A failed dial is never cached.
type MongoClient struct {
	log         *logger.Logger
	uri         string
	connTimeout time.Duration
	dial        Dialer

	mu     sync.Mutex
	client *mongo.Client

	inflight singleflight.Group
}

func NewMongoClient(log *logger.Logger, mongoURI string, connTimeout time.Duration, opts ...Option) *MongoClient {
	c := &MongoClient{
		log:         log,
		uri:         mongoURI,
		connTimeout: connTimeout,
		dial:        dialMongo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire returns the shared handle, connecting on first use.
func (c *MongoClient) Acquire(ctx context.Context) (*mongo.Client, error) {
	if c.uri == "" {
		return nil, &apperrors.ConfigError{Key: "MONGO_URI", Message: "connection URI is not configured"}
	}

	if client := c.live(); client != nil {
		return client, nil
	}

	// The dial is shared, so it must not die with the first caller's context.
	dialCtx := context.WithoutCancel(ctx)
	resultCh := c.inflight.DoChan(connectKey, func() (any, error) {
		if client := c.live(); client != nil {
			return client, nil
		}
		return c.connect(dialCtx)
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Client), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *MongoClient) connect(ctx context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, c.connTimeout)
	defer cancel()

	start := time.Now()
	client, err := c.dial(ctx, c.uri)
	if err != nil {
		c.log.Error("Failed to connect to MongoDB",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		var connectErr *apperrors.ConnectError
		if errors.As(err, &connectErr) {
			return nil, err
		}
		return nil, &apperrors.ConnectError{Err: err}
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	c.log.Info("Successfully connected to MongoDB", "duration_ms", time.Since(start).Milliseconds())
	return client, nil
}

func (c *MongoClient) live() *mongo.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Connected reports whether a live handle is cached.
func (c *MongoClient) Connected() bool {
	return c.live() != nil
}

// Disconnect closes the cached handle, if any. Used at shutdown.
func (c *MongoClient) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		c.log.Error("Failed to disconnect from MongoDB", "error", err)
		return err
	}
	c.log.Info("Disconnected from MongoDB")
	return nil
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return client, nil
}
