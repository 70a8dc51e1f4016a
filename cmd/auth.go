package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/credentials"
	"gitlab.com/chit-chat/kris/internal/ui"
	"gitlab.com/chit-chat/kris/internal/utils"
)

var authForce bool

func init() {
	authCmd.Flags().BoolVarP(&authForce, "force", "f", false, "force rewrite credentials")
}

// resetAuthCommandState resets the auth command's global state for testing.
func resetAuthCommandState() {
	authForce = false
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize client on the Christofari platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting auth command")

		store, err := openCredentialStore()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open credential store: %v", err)
		}

		if store.IsAuthorized() && !authForce {
			fmt.Println("You are already authorized.")
			fmt.Println("Use " + ui.Code.Sprint("-f") + " option to rewrite credentials.")
			return nil
		}

		fmt.Println("Enter email and password you use to login on Christofari.")
		email, err := utils.Prompt("email")
		if err != nil {
			return err
		}
		password, err := utils.PromptHidden("password")
		if err != nil {
			return err
		}

		fmt.Println("Enter your client API key.")
		fmt.Println("You can get it by running " + ui.Code.Sprint("echo $GWAPI_KEY") +
			" inside a Christofari terminal.")
		apiKey, err := utils.Prompt("api key")
		if err != nil {
			return err
		}

		err = store.SaveAccount(credentials.Account{
			Email:    email,
			Password: password,
			APIKey:   apiKey,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to save credentials: %v", err)
		}
		Logger.Infof("Credentials saved, requesting access token")

		client, _, err := newClient()
		if err != nil {
			return err
		}

		s, cleanup := startSpinner("Authorizing...", verbose)
		defer cleanup()

		if err := client.Authenticate(cmd.Context()); err != nil {
			s.FinalMSG = ui.Error.Sprint("✗") + " Authorization failed"
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " You are authorized"
		cleanup()

		if utils.IsTerminal() {
			banner := figure.NewColorFigure("kris", "alligator2", "green", true)
			banner.Print()
		}
		return nil
	},
}
