package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	appconfig "tasknest-app/tasknest/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// AttachmentStorageInterface is the object-storage collaborator holding
// task attachment files.
type AttachmentStorageInterface interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// S3AttachmentStorage stores attachments in an S3-compatible bucket
// (AWS S3 or MinIO via a base endpoint override).
type S3AttachmentStorage struct {
	bucket    string
	urlExpiry time.Duration
	client    *s3.Client
	presign   *s3.PresignClient
}

func NewS3AttachmentStorage(cfg appconfig.Config) (*S3AttachmentStorage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3AttachmentStorage{
		bucket:    cfg.S3Bucket,
		urlExpiry: time.Duration(cfg.AttachmentURLExpiryMinutes) * time.Minute,
		client:    client,
		presign:   s3.NewPresignClient(client),
	}, nil
}

// StorageKey builds a unique object key for an uploaded attachment,
// bucketed by date.
func StorageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

func (s *S3AttachmentStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3AttachmentStorage) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// AttachmentStorageInstance is nil when object storage is not configured;
// attachment fields then carry raw storage keys.
var AttachmentStorageInstance AttachmentStorageInterface
