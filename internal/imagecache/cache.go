// Package imagecache remembers which custom images were built from which
// requirements files, keyed by the file's content checksum, so unchanged
// requirements never trigger a rebuild.
package imagecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/chit-chat/kris/internal/configs"
	"gitlab.com/chit-chat/kris/internal/s3"
)

// Cache maps requirements checksums to image identifiers in a JSON file.
type Cache struct {
	path string
}

// New opens the cache at its default location in the kris data directory.
func New() *Cache {
	return NewAt(filepath.Join(configs.UserKrisSettings.UserDataPath, "image_cache.json"))
}

// NewAt opens a cache at an explicit path.
func NewAt(path string) *Cache {
	return &Cache{path: path}
}

// Lookup returns the cached image built from the requirements file, if any.
func (c *Cache) Lookup(requirementsPath string) (string, bool, error) {
	checksum, err := s3.FileChecksum(requirementsPath)
	if err != nil {
		return "", false, err
	}
	entries, err := c.load()
	if err != nil {
		return "", false, err
	}
	image, ok := entries[checksum]
	return image, ok, nil
}

// Store records the image built from the requirements file.
func (c *Cache) Store(requirementsPath, image string) error {
	checksum, err := s3.FileChecksum(requirementsPath)
	if err != nil {
		return err
	}
	entries, err := c.load()
	if err != nil {
		return err
	}
	entries[checksum] = image
	return c.save(entries)
}

func (c *Cache) load() (map[string]string, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image cache: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode image cache: %w", err)
	}
	return entries, nil
}

func (c *Cache) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}
