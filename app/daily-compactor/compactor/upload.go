package compactor

import (
	"context"
	"errors"
	"fmt"
	"github.com/OpenTransitTools/feedarchive/business/data/dataset"
	"path/filepath"
)

// ErrBucketMissing is returned when the configured bucket does not exist
var ErrBucketMissing = errors.New("bucket does not exist")

// UploadError reports a failure to place a dataset file in the object store
type UploadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("upload to bucket %s failed: %v", e.Bucket, e.Err)
	}
	return fmt.Sprintf("upload of %s to bucket %s failed: %v", e.Key, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// upload places both dataset files in the bucket, keyed by their file names
func (c *Compactor) upload(ctx context.Context, summary *dataset.Summary, vehiclesPath string, tripUpdatesPath string) error {
	bucket := c.store.BucketName()
	exists, err := c.store.BucketExists(ctx)
	if err != nil {
		return &UploadError{Bucket: bucket, Err: err}
	}
	if !exists {
		return &UploadError{Bucket: bucket, Err: ErrBucketMissing}
	}

	for _, path := range []string{vehiclesPath, tripUpdatesPath} {
		key := filepath.Base(path)
		if err = c.store.UploadFile(ctx, key, path); err != nil {
			return &UploadError{Bucket: bucket, Key: key, Err: err}
		}
		c.log.Printf("uploaded %s to bucket %s", key, bucket)
	}

	uploadedAt := c.now()
	summary.Bucket = bucket
	summary.VehiclesObjectKey = filepath.Base(vehiclesPath)
	summary.TripUpdatesObjectKey = filepath.Base(tripUpdatesPath)
	summary.UploadedAt = &uploadedAt
	return nil
}
