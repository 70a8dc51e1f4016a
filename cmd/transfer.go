package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/api"
	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	"gitlab.com/chit-chat/kris/internal/history"
	"gitlab.com/chit-chat/kris/internal/ui"
	"gitlab.com/chit-chat/kris/internal/workflows"
)

var transferCmd = &cobra.Command{
	Use:    "transfer SRC DST",
	Short:  "Copy between S3 and NFS",
	Hidden: true,
	Args:   cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := newClient()
		if err != nil {
			return err
		}
		cfg, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		result, err := workflows.Transfer(ctx, workflows.TransferOptions{
			Client: client,
			Config: cfg,
			Src:    args[0],
			Dst:    args[1],
			Logger: Logger,
		})
		if err != nil {
			return err
		}
		history.Log(history.Entry{
			Operation: "transfer",
			JobName:   result.JobName,
			Source:    result.Src,
			Dest:      result.Dst,
		})

		status, err := client.WaitForJob(ctx, result.JobName, true)
		if err != nil {
			return err
		}
		if status.Status != api.JobStatusComplete {
			return fmt.Errorf("transfer job %s finished with status %s: %w",
				result.JobName, status.Status, kerrors.ErrJobFailed)
		}

		fmt.Println(ui.Success.Sprintf("Transferred %s to %s", result.Src, result.Dst))
		return nil
	},
}
