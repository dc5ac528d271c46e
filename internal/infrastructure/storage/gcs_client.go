package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"skillswap/pkg/logger"
)

const (
	reportFolder    = "private/reports"
	signedURLExpiry = 15 * time.Minute
)

// CloudStorageClient uploads admin report exports to a GCS bucket.
type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func reportObjectName(kind string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%s-%s.csv", reportFolder, kind, now.UTC().Format("20060102150405"), uuid.New().String())
}

// UploadReport stores a CSV export and returns a short-lived download URL.
func (c *CloudStorageClient) UploadReport(ctx context.Context, kind string, body io.Reader) (string, error) {
	name := reportObjectName(kind, time.Now())

	obj := c.client.Bucket(c.bucketName).Object(name)
	wc := obj.NewWriter(ctx)
	wc.ContentType = "text/csv"
	wc.ContentDisposition = fmt.Sprintf("attachment; filename=%q", kind+".csv")

	if _, err := io.Copy(wc, body); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy report to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	url, err := c.client.Bucket(c.bucketName).SignedURL(name, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(signedURLExpiry),
	})
	if err != nil {
		logger.Warn("could not sign report URL, returning object URL: %v", err)
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, name), nil
	}

	return url, nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
