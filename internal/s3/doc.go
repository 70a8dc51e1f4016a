// Package s3 models the S3-compatible storage buckets provisioned for
// Christofari and resolves s3:// paths against the local bucket registry.
//
// A path "s3://first/rest..." is resolved in order:
//
//  1. "first" is a registered alias: that bucket, object path "rest...".
//  2. "first" is a registered bucket id: that bucket, object path "rest...".
//  3. "first" looks like a bucket id (a UUID followed by "-bucket") but is
//     not registered: an error — the path belongs to a bucket this machine
//     knows nothing about.
//  4. Otherwise: the default bucket, with "first/rest..." as the object path.
//
// Uploads go through minio-go against the bucket's regional endpoint
// (https://<namespace>.s3pd02.sbercloud.ru). Object names are prefixed with
// the file's content checksum, so re-uploading identical content is
// idempotent.
package s3
