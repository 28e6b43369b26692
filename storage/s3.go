package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore keeps profile images and generated reports.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	log.Println("S3 Client Initialized")
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), region, bucket), nil
}

func NewS3StoreWithClient(client *s3.Client, region, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

func (s *S3Store) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
}

// Upload stores the object and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return s.baseURL() + key, nil
}

/*
* Resolve the key from a URL this store produced
* URLs from anywhere else are left alone
 */
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := s.KeyFromURL(url)
	if !ok {
		log.Println("Skipping delete of foreign object url:", url)
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}

func (s *S3Store) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.baseURL())
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// ImageKey names a new profile image object for the owner.
func ImageKey(folder, ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", folder, ownerID, uuid.NewString(), ext)
}

func ReportKey(month string) string {
	return fmt.Sprintf("reports/payouts-%s.xlsx", month)
}
