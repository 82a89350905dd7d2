package delivery

import (
	"errors"
	"fmt"
	"time"

	"github.com/LukasDorner/StreamGate/internal/pkg/env"
)

// Config holds media delivery configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	DefaultTTL      time.Duration
}

// LoadConfig loads delivery configuration from environment variables
func LoadConfig() (*Config, error) {
	ttlSecs := 300
	if raw := env.GetEnv("MEDIA_URL_TTL_SECONDS", ""); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &ttlSecs); err != nil {
			return nil, fmt.Errorf("invalid MEDIA_URL_TTL_SECONDS %q: %w", raw, err)
		}
	}

	config := &Config{
		AccessKeyID:     env.GetEnv("MEDIA_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("MEDIA_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("MEDIA_S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("MEDIA_S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("MEDIA_S3_ENDPOINT_URL", ""),
		DefaultTTL:      time.Duration(ttlSecs) * time.Second,
	}

	if config.AccessKeyID == "" {
		return nil, errors.New("MEDIA_S3_ACCESS_KEY_ID is required")
	}
	if config.SecretAccessKey == "" {
		return nil, errors.New("MEDIA_S3_SECRET_ACCESS_KEY is required")
	}
	if config.BucketName == "" {
		return nil, errors.New("MEDIA_S3_BUCKET_NAME is required")
	}

	return config, nil
}
