package configs

import (
	"fmt"
	"os"
	"strings"

	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

// Config holds the registered buckets and the name of the default bucket.
type Config struct {
	Default string                  `toml:"default,omitempty"`
	Buckets map[string]BucketConfig `toml:"buckets"`
}

// BucketConfig holds the credentials of a single S3 bucket as issued by the
// Christofari bucket provisioning portal.
type BucketConfig struct {
	BucketID        string `toml:"bucket_id"`
	Namespace       string `toml:"namespace"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// LoadConfig loads the bucket configuration from the config file.
// A missing file yields an empty configuration.
func LoadConfig() (*Config, error) {
	configPath := BucketConfigPath()

	config := &Config{
		Buckets: make(map[string]BucketConfig),
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load bucket config: %w", err)
	}

	if config.Buckets == nil {
		config.Buckets = make(map[string]BucketConfig)
	}

	return config, nil
}

// SaveConfig saves the bucket configuration to the config file.
func SaveConfig(config *Config) error {
	if err := SaveTOML(BucketConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save bucket config: %w", err)
	}
	return nil
}

// ValidateAlias checks whether alias is acceptable for a new bucket.
// The first bucket registered becomes the default bucket and must not contain
// underscores; bucket ids derived from it are used verbatim in S3 paths.
func (c *Config) ValidateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("bucket alias must not be empty")
	}
	if _, ok := c.Buckets[alias]; ok {
		return fmt.Errorf("bucket %q: %w", alias, kerrors.ErrBucketExists)
	}
	if len(c.Buckets) == 0 && strings.Contains(alias, "_") {
		return fmt.Errorf("bucket %q: %w", alias, kerrors.ErrInvalidDefaultAlias)
	}
	return nil
}

// AddBucket registers a bucket under alias. The first bucket added becomes
// the default bucket.
func (c *Config) AddBucket(alias string, bucket BucketConfig) error {
	if err := c.ValidateAlias(alias); err != nil {
		return err
	}
	if len(c.Buckets) == 0 {
		c.Default = alias
	}
	c.Buckets[alias] = bucket
	return nil
}

// DefaultBucket returns the configuration of the default bucket.
func (c *Config) DefaultBucket() (BucketConfig, error) {
	if c.Default == "" {
		return BucketConfig{}, kerrors.ErrNoDefaultBucket
	}
	bucket, ok := c.Buckets[c.Default]
	if !ok {
		return BucketConfig{}, fmt.Errorf("default bucket %q: %w", c.Default, kerrors.ErrBucketNotFound)
	}
	return bucket, nil
}

// HasDefaultBucket reports whether a default bucket is registered.
func (c *Config) HasDefaultBucket() bool {
	_, err := c.DefaultBucket()
	return err == nil
}
