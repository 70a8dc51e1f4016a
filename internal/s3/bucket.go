package s3

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

// endpointSuffix is the host suffix of the SberCloud S3 region serving
// Christofari buckets.
const endpointSuffix = ".s3pd02.sbercloud.ru"

// objectPrefix namespaces everything kris uploads inside a bucket.
const objectPrefix = "kris/"

// Bucket is a registered S3 bucket.
type Bucket struct {
	Alias           string
	ID              string
	Namespace       string
	AccessKeyID     string
	SecretAccessKey string
}

// FromConfig resolves a bucket by alias. An empty alias resolves to the
// default bucket.
func FromConfig(cfg *configs.Config, alias string) (*Bucket, error) {
	if alias == "" {
		bucket, err := cfg.DefaultBucket()
		if err != nil {
			return nil, err
		}
		return newBucket(cfg.Default, bucket), nil
	}

	bucket, ok := cfg.Buckets[alias]
	if !ok {
		return nil, fmt.Errorf("bucket %q: %w", alias, kerrors.ErrBucketNotFound)
	}
	return newBucket(alias, bucket), nil
}

func newBucket(alias string, cfg configs.BucketConfig) *Bucket {
	return &Bucket{
		Alias:           alias,
		ID:              cfg.BucketID,
		Namespace:       cfg.Namespace,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	}
}

// Endpoint returns the S3 endpoint host of the bucket's namespace.
func (b *Bucket) Endpoint() string {
	return b.Namespace + endpointSuffix
}

// EndpointURL returns the full S3 endpoint URL.
func (b *Bucket) EndpointURL() string {
	return "https://" + b.Endpoint()
}

// UploadLocalFile uploads a local file into the bucket and returns its S3
// path. The object name carries the file's content checksum, so uploading
// the same content twice lands on the same object.
func (b *Bucket) UploadLocalFile(ctx context.Context, path string) (*Path, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	checksum, err := FileChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum %s: %w", path, err)
	}
	object := objectPrefix + checksum + "_" + filepath.Base(path)

	client, err := minio.New(b.Endpoint(), &minio.Options{
		Creds:  miniocreds.NewStaticV4(b.AccessKeyID, b.SecretAccessKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	if _, err := client.FPutObject(ctx, b.ID, object, path, minio.PutObjectOptions{}); err != nil {
		return nil, fmt.Errorf("failed to upload %s to bucket %s: %w", path, b.ID, err)
	}

	return &Path{Bucket: b, Parts: splitObject(object)}, nil
}
