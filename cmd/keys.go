package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/ui"
	"github.com/stylevault/stylevault/internal/workflows"
)

var (
	keysUser          string
	keysForce         bool
	keysPasswordStdin bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Provision password-protected key pairs",
}

func init() {
	keysCreateCmd.Flags().StringVarP(&keysUser, "user", "u", "", "user ID to provision (default: system username)")
	keysCreateCmd.Flags().BoolVarP(&keysForce, "force", "f", false, "replace existing keys")
	keysCreateCmd.Flags().BoolVar(&keysPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")

	keysCmd.AddCommand(keysCreateCmd)
}

// resetKeysCommandState resets the keys command's global state for testing.
func resetKeysCommandState() {
	keysUser = ""
	keysForce = false
	keysPasswordStdin = false
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate an RSA key pair protected by your password",
	Long: `Generates an RSA-2048 key pair for a user. The public key is stored in the
registry as PEM; the private key is stored encrypted under a key derived
from your password.

Replacing keys with --force makes designs uploaded under the old keys
unreadable to you.

Examples:
  stylevault keys create --user alice
  echo "$PASSWORD" | stylevault keys create --user alice --password-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys create command")

		userID, err := resolveUser(keysUser)
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}

		if keysForce {
			Logger.WarnfUser("Using --force will replace the existing keys for %s", userID)
		}

		password, err := readPassword(cmd, keysPasswordStdin, true)
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}
		defer password.Destroy()

		svc, err := openService()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Generating keys...")
		defer cleanup()

		result, err := svc.Provision(context.Background(), workflows.ProvisionOptions{
			UserID:   userID,
			Password: password,
			Force:    keysForce,
		})
		if err != nil {
			return reportError(spinner, err)
		}

		verb := "Created"
		if result.Replaced {
			verb = "Replaced"
		}
		spinner.FinalMSG = ui.Done(verb+" keys for "+ui.Highlight.Sprint(result.UserID)) + "\n" +
			ui.Hint("Upload a design with", "stylevault designs upload --user "+result.UserID+" --file design.json")
		if verbose || debug {
			spinner.FinalMSG += "\n" + string(result.PublicKeyPEM)
		}
		return nil
	},
}
