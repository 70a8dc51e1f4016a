package s3

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// FileChecksum returns the hex md5 digest of a file's contents. It is used
// for content-addressing object names and cache keys, not for security.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
