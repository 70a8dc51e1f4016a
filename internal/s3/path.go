package s3

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

const scheme = "s3://"

// bucketIDSuffix terminates platform-issued bucket ids ("<uuid>-bucket").
const bucketIDSuffix = "-bucket"

// Path is a location inside a registered bucket.
type Path struct {
	Bucket *Bucket
	Parts  []string
}

// IsPath reports whether raw looks like an S3 path.
func IsPath(raw string) bool {
	return strings.HasPrefix(raw, scheme)
}

// ParsePath parses an s3:// path and resolves its bucket against the local
// configuration. See the package documentation for the resolution order.
func ParsePath(cfg *configs.Config, raw string) (*Path, error) {
	if !IsPath(raw) {
		return nil, fmt.Errorf("%q: %w", raw, kerrors.ErrNotS3Path)
	}

	parts := strings.Split(strings.TrimPrefix(raw, scheme), "/")
	first := parts[0]

	if _, ok := cfg.Buckets[first]; ok {
		bucket, err := FromConfig(cfg, first)
		if err != nil {
			return nil, err
		}
		return &Path{Bucket: bucket, Parts: parts[1:]}, nil
	}

	for alias, props := range cfg.Buckets {
		if props.BucketID == first {
			bucket, err := FromConfig(cfg, alias)
			if err != nil {
				return nil, err
			}
			return &Path{Bucket: bucket, Parts: parts[1:]}, nil
		}
	}

	if isBucketID(first) {
		return nil, fmt.Errorf("%q: %w", raw, kerrors.ErrUnknownBucket)
	}

	// No bucket named at all: the whole path is relative to the default bucket.
	bucket, err := FromConfig(cfg, "")
	if err != nil {
		return nil, err
	}
	return &Path{Bucket: bucket, Parts: parts}, nil
}

// isBucketID reports whether s is shaped like a platform bucket id.
func isBucketID(s string) bool {
	if !strings.HasSuffix(s, bucketIDSuffix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(s, bucketIDSuffix))
	return err == nil
}

// String renders the path with its bucket id, the form the platform API
// expects.
func (p *Path) String() string {
	return scheme + p.Bucket.ID + "/" + strings.Join(p.Parts, "/")
}

// NFSPath returns where the platform's transfer jobs place this object on
// NFS, relative to the NFS home directory.
func (p *Path) NFSPath() string {
	return ".kris/s3/" + p.Bucket.ID + "/" + strings.Join(p.Parts, "/")
}

func splitObject(object string) []string {
	return strings.Split(object, "/")
}
