package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// SignedURL is a short-lived delivery link for one viewer.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// URLIssuer hands out time-limited media URLs after an allow decision. The
// access core never serves media itself.
type URLIssuer interface {
	Issue(ctx context.Context, storageKey string, userID uint, ttl time.Duration) (*SignedURL, error)
}

// S3Issuer issues presigned GET URLs against the media bucket.
type S3Issuer struct {
	presigner *s3.PresignClient
	config    *Config
}

// NewS3Issuer creates a presigning issuer for the configured media bucket.
func NewS3Issuer(cfg *Config) (*S3Issuer, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[Delivery] Presigning media URLs against bucket: %s", cfg.BucketName)
	return &S3Issuer{
		presigner: s3.NewPresignClient(s3Client),
		config:    cfg,
	}, nil
}

// Issue returns a presigned GET for the object backing the content. userID is
// recorded in the query string so CDN logs can be joined back to viewers.
func (i *S3Issuer) Issue(ctx context.Context, storageKey string, userID uint, ttl time.Duration) (*SignedURL, error) {
	if ttl <= 0 {
		ttl = i.config.DefaultTTL
	}

	req, err := i.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(i.config.BucketName),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to presign %s: %w", storageKey, err)
	}

	url := fmt.Sprintf("%s&viewer=%d", req.URL, userID)
	if userID == 0 {
		url = req.URL
	}

	return &SignedURL{
		URL:       url,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
