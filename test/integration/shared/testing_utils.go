// Package shared contains testing utilities shared between integration tests.
// It sets up temporary config and keyring directories, feeds scripted input
// to interactive prompts, and captures command output.
package shared

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"

	"gitlab.com/chit-chat/kris/cmd"
	"gitlab.com/chit-chat/kris/internal/configs"
	"gitlab.com/chit-chat/kris/internal/credentials"
)

// SetupTestEnvironment points the user settings and the credential store at
// temporary directories and restores the original state on cleanup.
func SetupTestEnvironment(t *testing.T) *credentials.Store {
	t.Helper()

	originalSettings := configs.UserKrisSettings
	t.Cleanup(func() {
		configs.UserKrisSettings = originalSettings
		cmd.SetCredentialOpener(credentials.Open)
		cmd.ResetGlobalState()
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
		t.Fatalf("Failed to open test keyring: %v", err)
	}
	cmd.SetCredentialOpener(func() (*credentials.Store, error) {
		return store, nil
	})
	return store
}

// AuthorizeTestAccount stores a complete account so commands pass the
// authorization check.
func AuthorizeTestAccount(t *testing.T, store *credentials.Store) {
	t.Helper()

	err := store.SaveAccount(credentials.Account{
		Email:       "testuser@example.com",
		Password:    "hunter2",
		APIKey:      "test-api-key",
		AccessToken: "test-access-token",
	})
	if err != nil {
		t.Fatalf("Failed to save test account: %v", err)
	}
}

// WithStdin replaces stdin with a pipe containing input for the duration of
// the test.
func WithStdin(t *testing.T, input string) {
	t.Helper()

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	if _, err := writer.WriteString(input); err != nil {
		t.Fatalf("Failed to write stdin input: %v", err)
	}
	writer.Close()

	original := os.Stdin
	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = original
		reader.Close()
	})
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// ExecuteCommand runs the root command with the given arguments.
func ExecuteCommand(args ...string) error {
	root := cmd.GetRootCmd()
	root.SetArgs(args)
	return root.Execute()
}
