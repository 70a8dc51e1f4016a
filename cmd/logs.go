package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logsService bool

func init() {
	logsCmd.Flags().BoolVar(&logsService, "service", false,
		"use this flag for service jobs (build image, copy from S3 etc)")
}

// resetJobCommandState resets job command flags for testing.
func resetJobCommandState() {
	statusService = false
	logsService = false
}

var logsCmd = &cobra.Command{
	Use:   "logs JOB_ID",
	Short: "Show job logs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		stream, err := client.Logs(cmd.Context(), args[0], logsService, false)
		if err != nil {
			return err
		}
		defer stream.Close()

		_, err = io.Copy(os.Stdout, stream)
		return err
	},
}
