package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"

	"gitlab.com/chit-chat/kris/internal/configs"
	"gitlab.com/chit-chat/kris/internal/credentials"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
)

// setupTestEnvironment points settings and the credential store at
// temporary directories and restores everything afterwards.
func setupTestEnvironment(t *testing.T) *credentials.Store {
	t.Helper()

	originalSettings := configs.UserKrisSettings
	t.Cleanup(func() {
		configs.UserKrisSettings = originalSettings
		SetCredentialOpener(credentials.Open)
		ResetGlobalState()
	})

	tempDir := t.TempDir()
	configs.UserKrisSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "config"),
		UserDataPath:    filepath.Join(tempDir, "data"),
	}

	store, err := credentials.OpenWithConfig(keyring.Config{
		ServiceName:      "kris-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          filepath.Join(tempDir, "keyring"),
		FilePasswordFunc: keyring.FixedStringPrompt("test"),
	})
	if err != nil {
		t.Fatalf("failed to open test keyring: %v", err)
	}
	SetCredentialOpener(func() (*credentials.Store, error) {
		return store, nil
	})
	return store
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return buf.String(), err
}

func TestHelpOutput(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	if output == "" {
		t.Fatal("--help produced no output")
	}
	for _, want := range []string{"kris", "auth", "add-bucket", "--debug"} {
		if !strings.Contains(output, want) {
			t.Errorf("--help output missing %q", want)
		}
	}
}

func TestUnauthorizedGate(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand("list")
	if !errors.Is(err, kerrors.ErrNotAuthorized) {
		t.Fatalf("list without credentials error = %v, want ErrNotAuthorized", err)
	}
}

func TestNoDefaultBucketGate(t *testing.T) {
	store := setupTestEnvironment(t)

	err := store.SaveAccount(credentials.Account{
		Email:    "user@example.com",
		Password: "hunter2",
		APIKey:   "api-key-123",
	})
	if err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	_, err = executeCommand("list")
	if !errors.Is(err, kerrors.ErrNoDefaultBucket) {
		t.Fatalf("list without default bucket error = %v, want ErrNoDefaultBucket", err)
	}
}

func TestAuthSkipsBucketGate(t *testing.T) {
	store := setupTestEnvironment(t)

	err := store.SaveAccount(credentials.Account{
		Email:    "user@example.com",
		Password: "hunter2",
		APIKey:   "api-key-123",
	})
	if err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	// Already authorized and not forcing: auth must succeed without a
	// default bucket configured.
	_, err = executeCommand("auth")
	if err != nil {
		t.Fatalf("auth while authorized failed: %v", err)
	}
}
