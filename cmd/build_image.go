package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/configs"
	"gitlab.com/chit-chat/kris/internal/history"
	"gitlab.com/chit-chat/kris/internal/imagecache"
	"gitlab.com/chit-chat/kris/internal/ui"
	"gitlab.com/chit-chat/kris/internal/workflows"
)

var buildImageCmd = &cobra.Command{
	Use:    "build-image REQUIREMENTS",
	Short:  "Build a custom image from a requirements file",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		cfg, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		fmt.Println("Building image...")
		result, err := workflows.EnsureImage(cmd.Context(), workflows.ImageOptions{
			Client:           client,
			Config:           cfg,
			Cache:            imagecache.New(),
			RequirementsPath: args[0],
			Logger:           Logger,
		})
		if err != nil {
			return err
		}

		if !result.FromCache {
			history.Log(history.Entry{Operation: "build-image", Image: result.Image})
		}
		fmt.Println(ui.Success.Sprintf("Image was built successfully. Identifier: %s", result.Image))
		return nil
	},
}
