// Package objectstore uploads finished datasets to a cloud object store bucket
package objectstore

import (
	"context"
	"fmt"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"strings"
)

// Store is a bucket that files can be uploaded into
type Store interface {
	// BucketName names the destination bucket
	BucketName() string

	// BucketExists reports whether the destination bucket is reachable and exists
	BucketExists(ctx context.Context) (bool, error)

	// UploadFile stores the contents of localPath under key
	UploadFile(ctx context.Context, key string, localPath string) error
}

// OSSConfig holds configuration needed to reach an OSS bucket
type OSSConfig struct {
	Endpoint  string // region endpoint such as "oss-ap-southeast-2", or a full url
	Bucket    string
	AccessKey string
	SecretKey string
	Internal  bool // use the region's internal endpoint
}

// OSSStore implements Store for Aliyun OSS
type OSSStore struct {
	client     *oss.Client
	bucketName string
}

// NewOSSStore builds an OSSStore from cfg. No request is made until the store is used
func NewOSSStore(cfg OSSConfig) (*OSSStore, error) {
	if err := oss.CheckBucketName(cfg.Bucket); err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http") {
		if cfg.Internal {
			endpoint = endpoint + "-internal"
		}
		endpoint = fmt.Sprintf("https://%s.aliyuncs.com", endpoint)
	}
	client, err := oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("unable to create oss client for %s: %w", endpoint, err)
	}
	return &OSSStore{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

// BucketName implements Store
func (s *OSSStore) BucketName() string {
	return s.bucketName
}

// BucketExists implements Store
func (s *OSSStore) BucketExists(_ context.Context) (bool, error) {
	exists, err := s.client.IsBucketExist(s.bucketName)
	if err != nil {
		return false, fmt.Errorf("unable to check bucket %s: %w", s.bucketName, err)
	}
	return exists, nil
}

// UploadFile implements Store
func (s *OSSStore) UploadFile(ctx context.Context, key string, localPath string) error {
	bucket, err := s.client.Bucket(s.bucketName)
	if err != nil {
		return fmt.Errorf("unable to open bucket %s: %w", s.bucketName, err)
	}
	return bucket.PutObjectFromFile(key, localPath, oss.WithContext(ctx))
}
