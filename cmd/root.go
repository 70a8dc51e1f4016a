package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/configs"
	"gitlab.com/chit-chat/kris/internal/credentials"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	logger "gitlab.com/chit-chat/kris/internal/logging"
	"gitlab.com/chit-chat/kris/internal/ui"
)

// errReported marks errors whose message was already shown to the user, so
// Execute does not print them twice.
var errReported = errors.New("already reported")

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "kris",
		Short: "A CLI tool for interaction with Christofari.",
		Long: `kris runs your training scripts on the Christofari compute platform.

It authorizes against the platform API, registers S3 storage buckets, and
moves your code to the cluster through S3 and NFS before launching jobs.

Start with:
  kris auth          authorize with your Christofari account
  kris add-bucket    register a storage bucket from the provisioning portal
  kris run SCRIPT    run a script on the cluster

Use --debug with any command to see every API request and response.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing kris with verbose=%t, debug=%t", verbose, debug)
			return checkPreconditions(cmd)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	RootCmd.AddCommand(authCmd)
	RootCmd.AddCommand(addBucketCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(logsCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(transferCmd)
	RootCmd.AddCommand(uploadCmd)
	RootCmd.AddCommand(buildImageCmd)
}

// Execute runs the root command and reports any unreported error.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗ ")+err.Error())
	}
	return err
}

// checkPreconditions enforces that every command except auth runs with
// stored credentials, and every command except auth and add-bucket runs
// with a default bucket registered.
func checkPreconditions(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "completion", "__complete", "__completeNoDesc":
		return nil
	}

	if cmd.Name() != "auth" {
		store, err := openCredentialStore()
		if err != nil {
			return err
		}
		if !store.IsAuthorized() {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("You are not authorized."))
			fmt.Fprintln(os.Stderr, "Run "+ui.Code.Sprint("kris auth")+" to authorize.")
			return fmt.Errorf("%w: %w", errReported, kerrors.ErrNotAuthorized)
		}
	}

	if cmd.Name() != "auth" && cmd.Name() != "add-bucket" {
		cfg, err := configs.LoadConfig()
		if err != nil {
			return err
		}
		if !cfg.HasDefaultBucket() {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("No default bucket is set."))
			fmt.Fprintln(os.Stderr, "Run "+ui.Code.Sprint("kris add-bucket")+" to add bucket.")
			return fmt.Errorf("%w: %w", errReported, kerrors.ErrNoDefaultBucket)
		}
	}

	return nil
}

// openCredentialStore is swappable so tests can pin the keyring to a
// temporary file backend.
var openCredentialStore = credentials.Open

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetAuthCommandState()
	resetListCommandState()
	resetRunCommandState()
	resetJobCommandState()
}

// SetCredentialOpener replaces the credential store constructor for testing.
func SetCredentialOpener(open func() (*credentials.Store, error)) {
	openCredentialStore = open
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
