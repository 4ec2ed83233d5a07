package main

import (
	"context"
	"time"

	mongoMigration "devevents/internal/migrations/mongo"
	"devevents/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	client, err := cfg.Client.Acquire(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	err = mongoMigration.RunMigration(ctx, client, cfg.MongoDatabaseName, cfg.Log)
	if disconnectErr := cfg.Client.Disconnect(context.WithoutCancel(ctx)); disconnectErr != nil {
		cfg.Log.Warn("Disconnect after migration failed", "error", disconnectErr)
	}
	if err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
