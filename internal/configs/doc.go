// Package configs manages local configuration for kris.
//
// Configuration is stored in TOML format in the user's config directory:
//
//	~/.config/kris/config.toml
//
// # Bucket Configuration
//
// The config file stores S3 bucket credentials keyed by alias, plus the name
// of the default bucket:
//
//	default = "mybucket"
//
//	[buckets.mybucket]
//	bucket_id = "..."
//	namespace = "..."
//	access_key_id = "..."
//	secret_access_key = "..."
//
// The first bucket registered becomes the default bucket. Its alias must not
// contain underscores; aliases of later buckets are unrestricted. Paths such
// as "s3://data/train.csv" that do not name a registered bucket resolve
// against the default bucket.
//
// # Settings
//
// Global settings are initialized at startup:
//
//   - UserKrisSettings.UserConfigsPath: config files (bucket config, keyring)
//   - UserKrisSettings.UserDataPath: local state (image cache, job history)
//
// Tests override UserKrisSettings to point at temporary directories.
package configs
