package configs

import (
	"log"
	"os"
	"path/filepath"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
}

var UserKrisSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserKrisSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "kris"),
		UserDataPath:    filepath.Join(dataDir, "kris"),
	}
}

// BucketConfigPath returns the path of the bucket configuration file.
func BucketConfigPath() string {
	return filepath.Join(UserKrisSettings.UserConfigsPath, "config.toml")
}
