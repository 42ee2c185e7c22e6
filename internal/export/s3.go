package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config addresses an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3Exporter uploads archives to object storage, creating the bucket on
// first use.
type S3Exporter struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	initOnce sync.Once
	initErr  error
}

// NewS3Exporter validates cfg and builds a client. No request is made until
// the first Export.
func NewS3Exporter(cfg S3Config) (*S3Exporter, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Exporter{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (e *S3Exporter) ensureBucket(ctx context.Context) error {
	e.initOnce.Do(func() {
		exists, err := e.client.BucketExists(ctx, e.bucket)
		if err != nil {
			e.initErr = err
			return
		}
		if exists {
			return
		}
		e.initErr = e.client.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{Region: e.region})
	})
	return e.initErr
}

// objectKey joins the configured prefix and name.
func (e *S3Exporter) objectKey(name string) string {
	if e.prefix == "" {
		return name
	}
	return path.Join(e.prefix, name)
}

// Export uploads blob and returns an s3:// location.
func (e *S3Exporter) Export(ctx context.Context, name string, blob []byte) (string, error) {
	name, err := checkName(name)
	if err != nil {
		return "", err
	}
	if err := e.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := e.objectKey(name)
	_, err = e.client.PutObject(ctx, e.bucket, key, bytes.NewReader(blob), int64(len(blob)), minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return "s3://" + e.bucket + "/" + key, nil
}
