package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	URI                    string
	Database               string
	Collection             string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:                    "mongodb://localhost:27017",
		Database:               "library",
		Collection:             "book",
		MaxPoolSize:            100,
		MinPoolSize:            5,
		MaxConnIdleTime:        30 * time.Second,
		ConnectTimeout:         5 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
	}
}

func LoadMongoConfig() *MongoConfig {
	godotenv.Load(".env")
	config := DefaultMongoConfig()

	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		config.URI = uri
	}
	if database := os.Getenv("MONGODB_DATABASE"); database != "" {
		config.Database = database
	}
	if collection := os.Getenv("MONGODB_COLLECTION"); collection != "" {
		config.Collection = collection
	}
	if size := os.Getenv("MONGODB_MAX_POOL_SIZE"); size != "" {
		if v, err := strconv.ParseUint(size, 10, 64); err == nil {
			config.MaxPoolSize = v
		}
	}

	return config
}
