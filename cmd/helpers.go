package cmd

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"gitlab.com/chit-chat/kris/internal/api"
	"gitlab.com/chit-chat/kris/internal/credentials"
	"gitlab.com/chit-chat/kris/internal/ui"
)

// newClient opens the credential store and builds an API client on top of it.
func newClient() (*api.Client, *credentials.Store, error) {
	store, err := openCredentialStore()
	if err != nil {
		return nil, nil, err
	}
	return api.New(store, api.WithLogger(Logger)), store, nil
}

// startSpinner creates a spinner unless verbose or debug output would fight
// with it. The returned cleanup stops the spinner and prints its FinalMSG.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
		}
		s.FinalMSG = finalMsg
		s.Stop()
	}
	return s, cleanup
}

// humanTime renders a unix timestamp the way job listings show it.
func humanTime(timestamp int64) string {
	return time.Unix(timestamp, 0).Format("2006-01-02 15:04:05")
}
