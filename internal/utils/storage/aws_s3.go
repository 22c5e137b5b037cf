package storage

import (
	"Supermarket-Vision-Backend/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"slices"
	"strings"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp"}
	AllowPDF   = []string{"application/pdf"}

	ErrStorageDisabled  = errors.New("object storage is not configured")
	ErrFileTypeNotAllow = errors.New("file type is not allowed")
	ErrFileTooLarge     = errors.New("file is too large")
)

const maxUploadSize = 10 << 20

type (
	// ObjectAPI is the part of the S3 client the storage needs.
	ObjectAPI interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error)
		UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
		Enabled() bool
	}

	awsS3 struct {
		client ObjectAPI
		bucket string
		region string
	}
)

// NewAwsS3 builds the bucket client from static credentials. Without a
// bucket the returned storage is disabled and every write fails with
// ErrStorageDisabled.
func NewAwsS3(ctx context.Context, cfg utils.Config) (AwsS3, error) {
	if cfg.AWSS3Bucket == "" {
		return &awsS3{}, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSS3Region)}
	if cfg.AWSAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewAwsS3WithClient(s3.NewFromConfig(awsCfg), cfg.AWSS3Bucket, cfg.AWSS3Region), nil
}

func NewAwsS3WithClient(client ObjectAPI, bucket, region string) AwsS3 {
	return &awsS3{client: client, bucket: bucket, region: region}
}

func (a *awsS3) Enabled() bool {
	return a.client != nil && a.bucket != ""
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	data, contentType, err := readFile(file, allowed)
	if err != nil {
		return "", err
	}

	key := path.Join(folder, fileName+"-"+uuid.NewString()[:8]+extensionFor(contentType))
	return a.UploadBytes(ctx, key, data, contentType)
}

// UpdateFile overwrites the object at objectKey in place.
func (a *awsS3) UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error) {
	data, contentType, err := readFile(file, allowed)
	if err != nil {
		return "", err
	}
	return a.UploadBytes(ctx, objectKey, data, contentType)
}

func (a *awsS3) UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if !a.Enabled() {
		return "", ErrStorageDisabled
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if !a.Enabled() {
		return ErrStorageDisabled
	}

	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	if a.bucket == "" || !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

func readFile(file *multipart.FileHeader, allowed []string) ([]byte, string, error) {
	if file.Size > maxUploadSize {
		return nil, "", ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadSize {
		return nil, "", ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	if len(allowed) > 0 && !slices.Contains(allowed, contentType) {
		return nil, "", fmt.Errorf("%w: %s", ErrFileTypeNotAllow, contentType)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
