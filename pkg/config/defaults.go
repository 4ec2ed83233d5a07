package config

import "time"

const (
	DefaultEnvironment = "development"
	Production         = "production"

	DefaultMongoDatabaseName = "devevents"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultEventCacheTTL = 5 * time.Minute
	DefaultKafkaTopic    = "devevents.domain-events"

	DefaultPaginationLimit = 100
)
