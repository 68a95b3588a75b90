package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Enabled      bool          `json:"enabled"`
	Addr         string        `json:"addr"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	PoolTimeout  time.Duration `json:"pool_timeout"`
	CacheTTL     time.Duration `json:"cache_ttl"`
}

type CacheConfig struct {
	MaxMemory string // e.g., "256mb", "1gb"
	Policy    string // eviction policy
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:      true,
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
		CacheTTL:     10 * time.Minute,
	}
}

// Load configuration from environment or .env
func LoadRedisConfig() *RedisConfig {
	godotenv.Load(".env")
	config := DefaultRedisConfig()

	if enabled := os.Getenv("REDIS_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			config.Enabled = v
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if v, err := strconv.Atoi(db); err == nil {
			config.DB = v
		}
	}
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if v, err := time.ParseDuration(ttl); err == nil && v > 0 {
			config.CacheTTL = v
		}
	}

	return config
}
