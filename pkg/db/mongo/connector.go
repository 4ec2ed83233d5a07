package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Connector hands out the shared store handle. *client.MongoClient
// implements it.
type Connector interface {
	Acquire(ctx context.Context) (*mongo.Client, error)
}

// Collection resolves a collection through the connector.
func Collection(ctx context.Context, conn Connector, database, name string) (*mongo.Collection, error) {
	client, err := conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(database).Collection(name), nil
}
