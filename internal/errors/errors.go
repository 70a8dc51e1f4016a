package errors

import "errors"

// Authorization errors indicate missing or unusable platform credentials.
var (
	// ErrNotAuthorized indicates no credentials are stored for this user.
	ErrNotAuthorized = errors.New("not authorized, run `kris auth` first")

	// ErrTokenRefreshFailed indicates a new access token could not be obtained.
	ErrTokenRefreshFailed = errors.New("failed to refresh access token")
)

// Bucket errors indicate issues with bucket registration or lookup.
var (
	// ErrNoDefaultBucket indicates no default bucket has been registered yet.
	ErrNoDefaultBucket = errors.New("no default bucket is set")

	// ErrBucketExists indicates a bucket with this alias is already registered.
	ErrBucketExists = errors.New("bucket alias already exists")

	// ErrBucketNotFound indicates the requested bucket alias is not registered.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrInvalidDefaultAlias indicates the default bucket alias contains
	// characters that are not allowed, such as underscores.
	ErrInvalidDefaultAlias = errors.New("default bucket alias must not contain underscores")
)

// Path errors indicate issues with s3:// path parsing.
var (
	// ErrNotS3Path indicates the string does not start with the s3:// scheme.
	ErrNotS3Path = errors.New("path should start with \"s3://\"")

	// ErrUnknownBucket indicates the path references a bucket id that is not
	// registered in the local configuration.
	ErrUnknownBucket = errors.New("path is from unknown bucket")
)

// Job errors indicate failures of remote platform jobs.
var (
	// ErrJobFailed indicates a platform job finished in the Failed state.
	ErrJobFailed = errors.New("job failed")

	// ErrScriptNotFound indicates the script to run does not exist locally.
	ErrScriptNotFound = errors.New("script file does not exist")
)
