package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/recipebox/backend/config"
)

// ImageStore persists uploaded recipe images and returns their public
// location.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3ImageStore stores images in an S3 bucket
type S3ImageStore struct {
	s3Config *config.S3Config
}

// NewS3ImageStore creates a new S3ImageStore instance
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Upload writes the image to the bucket and returns the public URL
func (s *S3ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[image] uploaded %s", publicURL)
	return publicURL, nil
}
