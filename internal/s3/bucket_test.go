package s3

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

func TestFromConfigDefault(t *testing.T) {
	bucket, err := FromConfig(testConfig(), "")
	if err != nil {
		t.Fatalf("FromConfig(default) failed: %v", err)
	}
	if bucket.Alias != "mybucket" {
		t.Errorf("Alias = %q, want %q", bucket.Alias, "mybucket")
	}
	if bucket.ID != defaultBucketID {
		t.Errorf("ID = %q, want %q", bucket.ID, defaultBucketID)
	}
}

func TestFromConfigAlias(t *testing.T) {
	bucket, err := FromConfig(testConfig(), "second_bucket")
	if err != nil {
		t.Fatalf("FromConfig(alias) failed: %v", err)
	}
	if bucket.ID != secondBucketID {
		t.Errorf("ID = %q, want %q", bucket.ID, secondBucketID)
	}
}

func TestFromConfigMissing(t *testing.T) {
	_, err := FromConfig(testConfig(), "nope")
	if !errors.Is(err, kerrors.ErrBucketNotFound) {
		t.Fatalf("FromConfig(missing) error = %v, want ErrBucketNotFound", err)
	}
}

func TestFromConfigNoDefault(t *testing.T) {
	cfg := &configs.Config{Buckets: map[string]configs.BucketConfig{}}
	_, err := FromConfig(cfg, "")
	if !errors.Is(err, kerrors.ErrNoDefaultBucket) {
		t.Fatalf("FromConfig(no default) error = %v, want ErrNoDefaultBucket", err)
	}
}

func TestEndpointURL(t *testing.T) {
	bucket, err := FromConfig(testConfig(), "mybucket")
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	want := "https://ns-one.s3pd02.sbercloud.ru"
	if got := bucket.EndpointURL(); got != want {
		t.Errorf("EndpointURL() = %q, want %q", got, want)
	}
}

func TestFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// md5("hello")
	want := "5d41402abc4b2a76b9719d911017c592"
	got, err := FileChecksum(path)
	if err != nil {
		t.Fatalf("FileChecksum failed: %v", err)
	}
	if got != want {
		t.Errorf("FileChecksum = %q, want %q", got, want)
	}
}
