package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Addr            string
	HealthAddr      string
	GinMode         string
	LogLevel        string
	ShutdownTimeout time.Duration
}

func LoadServerConfig() *ServerConfig {
	godotenv.Load(".env")
	config := &ServerConfig{
		Addr:            ":8080",
		HealthAddr:      ":50051",
		GinMode:         "release",
		LogLevel:        "info",
		ShutdownTimeout: 5 * time.Second,
	}

	if addr := os.Getenv("APP_ADDR"); addr != "" {
		config.Addr = addr
	}
	if addr := os.Getenv("GRPC_HEALTH_ADDR"); addr != "" {
		config.HealthAddr = addr
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.GinMode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}

	return config
}
