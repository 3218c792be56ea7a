package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/config"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var (
	ErrFileTooLarge    = apperror.New(http.StatusBadRequest, "FILE_TOO_LARGE", "File size exceeds 5MB limit")
	ErrInvalidFileType = apperror.New(http.StatusBadRequest, "INVALID_FILE_TYPE", "Invalid file type. Only JPEG, PNG, GIF, WEBP are allowed.")
)

// File is an uploaded file handed over by the HTTP layer.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileStorage stores public files and resolves their URLs.
type FileStorage interface {
	Upload(ctx context.Context, dir string, f File) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ValidateImage accepts jpeg, png, webp and gif files up to MaxImageSize.
func ValidateImage(f File) error {
	if f.Size > MaxImageSize {
		return ErrFileTooLarge
	}
	if !allowedImageTypes[strings.ToLower(f.ContentType)] {
		return ErrInvalidFileType
	}
	return nil
}

// NewKey builds the object key <dir>/<uuid>-<name>.
func NewKey(dir, name string) string {
	return fmt.Sprintf("%s/%s-%s", strings.Trim(dir, "/"), uuid.NewString(), path.Base(name))
}

type S3Storage struct {
	client *s3.Client
	bucket string
}

func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	return &S3Storage{client: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

func (s *S3Storage) Upload(ctx context.Context, dir string, f File) (string, error) {
	key := NewKey(dir, f.Name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f.Content,
		ContentType:   aws.String(f.ContentType),
		ContentLength: aws.Int64(f.Size),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		log.Error("S3Storage: upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}
	log.Info("S3Storage: file uploaded", zap.String("key", key), zap.Int64("size", f.Size))
	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error("S3Storage: delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return PublicURL(s.bucket, key)
}

// PublicURL is the public-read URL of key in bucket.
func PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}
