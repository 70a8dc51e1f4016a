// Package history appends a local record of job submissions, transfers, and
// image builds to a JSON-lines file in the kris data directory. It exists so
// users can reconstruct what was launched from this machine after job names
// have scrolled out of the terminal.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/chit-chat/kris/internal/configs"
)

// Entry represents a single history entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"` // run, transfer, or build-image.

	// Optional fields depending on operation.
	JobName string `json:"job_name,omitempty"`
	Script  string `json:"script,omitempty"` // For run.
	Image   string `json:"image,omitempty"`  // For run/build-image.
	Source  string `json:"src,omitempty"`    // For transfer.
	Dest    string `json:"dst,omitempty"`    // For transfer.
}

// Log appends an entry to the history log.
// Operations should not fail just because history logging failed, so errors
// are swallowed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	dir := configs.UserKrisSettings.UserDataPath
	if err := os.MkdirAll(dir, 0700); err != nil {
		return
	}

	logPath := filepath.Join(dir, "history.jsonl")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}
