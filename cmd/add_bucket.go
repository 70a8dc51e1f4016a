package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/configs"
	kerrors "gitlab.com/chit-chat/kris/internal/errors"
	"gitlab.com/chit-chat/kris/internal/ui"
	"gitlab.com/chit-chat/kris/internal/utils"
)

var addBucketCmd = &cobra.Command{
	Use:   "add-bucket [ALIAS]",
	Short: "Add bucket credentials to configuration",
	Long: `Registers an S3 bucket obtained from the Christofari provisioning portal
(https://portal.sbercloud.ru/client/ai-clouds/).

The first bucket you add becomes the default bucket: uploads and bare
s3:// paths resolve against it. Its alias must not contain underscores.
Buckets added afterwards may use any alias.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add-bucket command")

		cfg, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load bucket config: %v", err)
		}

		first := len(cfg.Buckets) == 0

		var alias string
		if len(args) == 1 {
			alias = args[0]
			if err := cfg.ValidateAlias(alias); err != nil {
				return err
			}
		} else {
			if first {
				fmt.Println(ui.Info.Sprint("This will be your default bucket."))
				fmt.Println(ui.Info.Sprint("Its alias must not contain underscores."))
			}
			fmt.Println("Enter alias for a new bucket, e. g. " + ui.Highlight.Sprint("my-bucket"))
			for {
				alias, err = utils.Prompt("alias")
				if err != nil {
					return err
				}
				err = cfg.ValidateAlias(alias)
				if err == nil {
					break
				}
				switch {
				case errors.Is(err, kerrors.ErrBucketExists):
					fmt.Println(ui.Error.Sprintf("Bucket %s already exists", alias))
				case errors.Is(err, kerrors.ErrInvalidDefaultAlias):
					fmt.Println(ui.Error.Sprint("The default bucket alias must not contain underscores"))
				default:
					fmt.Println(ui.Error.Sprint(err.Error()))
				}
			}
		}

		fmt.Println("Enter credentials for a new bucket:")
		bucketID, err := utils.Prompt("bucket_id")
		if err != nil {
			return err
		}
		namespace, err := utils.Prompt("namespace")
		if err != nil {
			return err
		}
		accessKeyID, err := utils.Prompt("access_key_id")
		if err != nil {
			return err
		}
		secretAccessKey, err := utils.Prompt("secret_access_key")
		if err != nil {
			return err
		}

		err = cfg.AddBucket(alias, configs.BucketConfig{
			BucketID:        bucketID,
			Namespace:       namespace,
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
		})
		if err != nil {
			return err
		}

		if err := configs.SaveConfig(cfg); err != nil {
			return Logger.ErrorfAndReturn("failed to save bucket config: %v", err)
		}

		fmt.Println(ui.Success.Sprintf("Bucket %s was created successfully!", alias))
		if first {
			fmt.Println(ui.Info.Sprint("It is now your default bucket."))
		}
		fmt.Println("Your bucket configuration is stored here: " +
			ui.Path.Sprint(configs.BucketConfigPath()))
		return nil
	},
}
