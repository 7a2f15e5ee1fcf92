package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	PostgresDSN string
	ServerPort  int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MediaBucket    string
	PublicBaseURL  string

	JWTSecret string

	RedisAddr     string
	RedisPassword string

	RateLimitMax    int64
	RateLimitWindow time.Duration
	FetchTimeout    time.Duration
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	viper.SetDefault("RATE_LIMIT_MAX", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 30)

	required := []string{
		"POSTGRES_DSN",
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
		"MEDIA_BUCKET",
		"PUBLIC_BASE_URL",
		"JWT_SECRET",
	}
	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	return &Settings{
		PostgresDSN:     viper.GetString("POSTGRES_DSN"),
		ServerPort:      viper.GetInt("SERVER_PORT"),
		MinioEndpoint:   viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     viper.GetBool("MINIO_USE_SSL"),
		MediaBucket:     viper.GetString("MEDIA_BUCKET"),
		PublicBaseURL:   viper.GetString("PUBLIC_BASE_URL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RedisPassword:   viper.GetString("REDIS_PASSWORD"),
		RateLimitMax:    viper.GetInt64("RATE_LIMIT_MAX"),
		RateLimitWindow: time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		FetchTimeout:    time.Duration(viper.GetInt("FETCH_TIMEOUT_SECONDS")) * time.Second,
	}, nil
}
