package db

import (
	"context"
	"time"

	"bookrepository/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
	"go.uber.org/zap"
)

func Connect(cfg *config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client()
	clientOptions.ApplyURI(cfg.URI)
	clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	clientOptions.SetMinPoolSize(cfg.MinPoolSize)
	clientOptions.SetWriteConcern(writeconcern.Majority())

	// Add connection timeouts
	clientOptions.SetMaxConnIdleTime(cfg.MaxConnIdleTime)
	clientOptions.SetConnectTimeout(cfg.ConnectTimeout)
	clientOptions.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		zap.S().Errorw("Error creating mongo client", "error", err)
		return nil, nil, err
	}

	return client, client.Database(cfg.Database), nil
}

// Ping reports whether the primary is reachable within timeout.
func Ping(client *mongo.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}
