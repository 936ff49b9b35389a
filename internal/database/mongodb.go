package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ke1ruuu/us/internal/config"
	"github.com/ke1ruuu/us/pkg/logger"
)

const connectAttempts = 5

// Connect dials the MongoDB deployment holding the journal's users, entries
// and fallback sessions. It retries with a linear backoff so the service can
// come up before the database container does. Caller should call
// client.Disconnect(ctx) on shutdown.
func Connect(ctx context.Context, cfg *config.MongoDBConfig) (*mongo.Client, error) {
	var client *mongo.Client
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		client, err = dial(ctx, cfg.URI, cfg.Timeout)
		if err == nil {
			return client, nil
		}
		logger.Warnf("mongo connect attempt %d/%d failed: %v", attempt, connectAttempts, err)
		if attempt < connectAttempts {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}
	return nil, fmt.Errorf("mongo unreachable after %d attempts: %w", connectAttempts, err)
}

func dial(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
