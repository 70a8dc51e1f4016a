package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/ui"
)

var statusService bool

func init() {
	statusCmd.Flags().BoolVar(&statusService, "service", false,
		"use this flag for service jobs (build image, copy from S3 etc)")
}

var statusCmd = &cobra.Command{
	Use:    "status JOB_ID",
	Short:  "Show job status",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		status, err := client.Status(cmd.Context(), args[0], statusService)
		if err != nil {
			return err
		}
		if status.ErrorMessage != "" {
			return fmt.Errorf("%s", status.ErrorMessage)
		}

		fmt.Println(ui.Warning.Sprint("ID:        ") + status.Name)
		if statusService {
			fmt.Println(ui.Warning.Sprint("Status:    ") + status.Status)
			return nil
		}

		stages := []struct {
			name string
			at   int64
		}{
			{"Created", status.CreatedAt},
			{"Pending", status.PendingAt},
			{"Running", status.RunningAt},
			{"Completed", status.CompletedAt},
		}
		for _, stage := range stages {
			if stage.at != 0 {
				fmt.Println(ui.Warning.Sprintf("%-10s ", stage.name+":") + humanTime(stage.at))
			}
		}
		return nil
	},
}
