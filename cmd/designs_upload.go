package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/ui"
	"github.com/stylevault/stylevault/internal/utils"
	"github.com/stylevault/stylevault/internal/workflows"
)

var (
	uploadUser          string
	uploadFile          string
	uploadStylist       string
	uploadPasswordStdin bool
)

func init() {
	designsUploadCmd.Flags().StringVarP(&uploadUser, "user", "u", "", "uploading customer (default: system username)")
	designsUploadCmd.Flags().StringVar(&uploadFile, "file", "", `design JSON file, or "-" for stdin`)
	designsUploadCmd.Flags().StringVar(&uploadStylist, "stylist", "", "choose a stylist instead of automatic assignment")
	designsUploadCmd.Flags().BoolVar(&uploadPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")
	_ = designsUploadCmd.MarkFlagRequired("file")
}

// resetUploadCommandState resets the upload command's global state for testing.
func resetUploadCommandState() {
	uploadUser = ""
	uploadFile = ""
	uploadStylist = ""
	uploadPasswordStdin = false
}

var designsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Encrypt a design for yourself and a stylist",
	Long: `Encrypts a JSON design so that only you and one stylist can open it, and
signs it with your private key.

Without --stylist the least busy available stylist is assigned.

Examples:
  stylevault designs upload --user alice --file outfit.json
  stylevault designs upload --user alice --file outfit.json --stylist vera`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting designs upload command")

		if uploadFile == "-" && uploadPasswordStdin {
			fmt.Println(ui.Fail("--file - and --password-stdin both read stdin; use one"))
			return ErrAlreadyReported
		}

		userID, err := resolveUser(uploadUser)
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}

		payload, err := utils.ReadPayload(uploadFile, cmd.InOrStdin())
		if err != nil {
			fmt.Println(ui.Fail(err.Error()))
			return ErrAlreadyReported
		}
		Logger.Debugf("Read %d bytes of design from %s", len(payload), uploadFile)

		password, err := readPassword(cmd, uploadPasswordStdin, false)
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}
		defer password.Destroy()

		svc, err := openService()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Encrypting design...")
		defer cleanup()

		result, err := svc.Upload(context.Background(), workflows.UploadOptions{
			UploaderID: userID,
			Password:   password,
			Payload:    payload,
			StylistID:  uploadStylist,
		})
		if err != nil {
			return reportError(spinner, err)
		}

		spinner.FinalMSG = ui.Done("Uploaded design "+ui.Highlight.Sprint(result.DesignID)) + "\n" +
			fmt.Sprintf("    stylist: %s %s\n", result.CounterpartyName, ui.Muted.Sprint(result.CounterpartyID)) +
			fmt.Sprintf("    assignment: %s, workload %d/%d", result.Method, result.Workload, result.MaxAssignments)
		return nil
	},
}
