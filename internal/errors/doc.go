// Package errors provides typed error values for the kris application.
//
// Sentinel errors let callers handle specific conditions with errors.Is()
// rather than string matching.
//
// # Error Categories
//
//   - Authorization errors: missing or stale credentials (ErrNotAuthorized)
//   - Bucket errors: bucket registration and lookup (ErrNoDefaultBucket,
//     ErrBucketExists, ErrInvalidDefaultAlias)
//   - Path errors: s3:// path parsing (ErrNotS3Path, ErrUnknownBucket)
//   - Job errors: remote platform jobs (ErrJobFailed)
//
// # Usage
//
// Return errors from internal packages:
//
//	if cfg.Default == "" {
//	    return nil, errors.ErrNoDefaultBucket
//	}
//
// Wrap with additional context:
//
//	return fmt.Errorf("bucket %q: %w", alias, errors.ErrBucketNotFound)
package errors
