package miniostore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ReceiptStorage struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
}

func NewReceiptStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string, presignTTL time.Duration) (*ReceiptStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", bucket, err)
		}
	}

	return &ReceiptStorage{client: client, bucket: bucket, presignTTL: presignTTL}, nil
}

func (s *ReceiptStorage) UploadReceipt(
	ctx context.Context,
	expenseID int64,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}

	objectKey = fmt.Sprintf("receipts/%d/receipt%s", expenseID, ext)

	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *ReceiptStorage) ReceiptURL(ctx context.Context, objectKey string) (string, error) {
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.presignTTL, url.Values{})
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *ReceiptStorage) DeleteReceipt(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
