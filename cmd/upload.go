package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/configs"
	"gitlab.com/chit-chat/kris/internal/ui"
	"gitlab.com/chit-chat/kris/internal/workflows"
)

var uploadCmd = &cobra.Command{
	Use:    "upload LOCAL_PATH NFS_PATH",
	Short:  "Upload a local file or directory to NFS",
	Hidden: true,
	// NFS_PATH is accepted but the destination is content-addressed; the
	// actual NFS location is printed on completion.
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		cfg, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		result, err := workflows.UploadLocalToNFS(cmd.Context(), workflows.UploadOptions{
			Client:    client,
			Config:    cfg,
			LocalPath: args[0],
			Logger:    Logger,
		})
		if err != nil {
			return err
		}

		fmt.Println("Uploaded " + ui.Path.Sprint(args[0]) + " to NFS: " + result.NFSPath)
		return nil
	},
}
