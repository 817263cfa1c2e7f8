package mongo

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// config is the connection surface read from the environment.
type config struct {
	uri         string
	database    string
	maxPoolSize uint64
	connTimeout time.Duration
}

func configFromEnv() config {
	cfg := config{
		uri:         os.Getenv("MONGODB_URI"),
		database:    os.Getenv("MONGODB_DATABASE"),
		maxPoolSize: 20,
		connTimeout: 10 * time.Second,
	}
	if cfg.uri == "" {
		cfg.uri = "mongodb://localhost:27017"
	}
	if cfg.database == "" {
		cfg.database = "stegavox"
	}
	if v, err := strconv.ParseUint(os.Getenv("MONGODB_MAX_POOL_SIZE"), 10, 64); err == nil && v > 0 {
		cfg.maxPoolSize = v
	}
	return cfg
}

// Client owns the driver connection and the database handle the session
// repository runs against.
type Client struct {
	*mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// NewClient connects to MongoDB using MONGODB_URI / MONGODB_DATABASE /
// MONGODB_MAX_POOL_SIZE and verifies the connection with a primary ping.
// Hide sessions are small and short-lived, so the pool stays modest.
func NewClient(logger *zap.Logger) (*Client, error) {
	cfg := configFromEnv()

	opts := options.Client().
		ApplyURI(cfg.uri).
		SetAppName("stegavox").
		SetMaxPoolSize(cfg.maxPoolSize).
		SetServerSelectionTimeout(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Disconnect the half-open client so it does not leak goroutines
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB",
		zap.String("database", cfg.database))

	return &Client{
		Client:   client,
		Database: client.Database(cfg.database),
		logger:   logger,
	}, nil
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	if err := c.Client.Disconnect(ctx); err != nil {
		c.logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		return err
	}
	c.logger.Info("Disconnected from MongoDB")
	return nil
}
