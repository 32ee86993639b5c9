package objectstore

import (
	"context"
	"github.com/matryer/is"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStore_UploadFile(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vehicles_2021-03-04.csv")
	is.NoErr(os.WriteFile(path, []byte("a,b\n"), 0644))

	store := NewMemoryStore("bucket", true)
	exists, err := store.BucketExists(ctx)
	is.NoErr(err)
	is.True(exists)
	is.NoErr(store.UploadFile(ctx, "vehicles_2021-03-04.csv", path))

	data, ok := store.Get("vehicles_2021-03-04.csv")
	is.True(ok)
	is.Equal(string(data), "a,b\n")
	is.Equal(store.Keys(), []string{"vehicles_2021-03-04.csv"})
}

func TestMemoryStore_missingBucket(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "f.csv")
	is.NoErr(os.WriteFile(path, []byte("x"), 0644))

	store := NewMemoryStore("bucket", false)
	exists, err := store.BucketExists(context.Background())
	is.NoErr(err)
	is.True(!exists)
	is.True(store.UploadFile(context.Background(), "f.csv", path) != nil)
	is.Equal(len(store.Keys()), 0)
}

func TestNewOSSStore(t *testing.T) {
	is := is.New(t)
	store, err := NewOSSStore(OSSConfig{
		Endpoint:  "oss-ap-southeast-2",
		Bucket:    "at-network-archive",
		AccessKey: "id",
		SecretKey: "secret",
	})
	is.NoErr(err)
	is.Equal(store.BucketName(), "at-network-archive")
	is.Equal(store.client.Config.Endpoint, "https://oss-ap-southeast-2.aliyuncs.com")
}

func TestNewOSSStore_invalidBucket(t *testing.T) {
	is := is.New(t)
	_, err := NewOSSStore(OSSConfig{Endpoint: "oss-ap-southeast-2", Bucket: "Not.A.Bucket"})
	is.True(err != nil)
}
