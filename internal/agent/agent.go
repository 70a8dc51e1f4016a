// Package agent carries the bootstrap script that runs on the cluster
// before the user's code: it unpacks the uploaded project archive and
// executes the requested script with its arguments.
package agent

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed agent.py
var script []byte

// Script returns the bootstrap script contents.
func Script() []byte {
	return script
}

// WriteTemp writes the bootstrap script to a temporary directory and
// returns its path together with a cleanup function.
func WriteTemp() (string, func(), error) {
	dir, err := os.MkdirTemp("", "kris-agent")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, "agent.py")
	if err := os.WriteFile(path, Script(), 0600); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
