package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/access"
	"github.com/stylevault/stylevault/internal/ui"
	"github.com/stylevault/stylevault/internal/workflows"
)

var (
	openUser          string
	openID            string
	openPasswordStdin bool
	openJSON          bool
)

func init() {
	designsOpenCmd.Flags().StringVarP(&openUser, "user", "u", "", "viewing user (default: system username)")
	designsOpenCmd.Flags().StringVar(&openID, "id", "", "design ID")
	designsOpenCmd.Flags().BoolVar(&openPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")
	designsOpenCmd.Flags().BoolVar(&openJSON, "json", false, "output the design and its metadata as JSON")
	_ = designsOpenCmd.MarkFlagRequired("id")
}

// resetOpenCommandState resets the open command's global state for testing.
func resetOpenCommandState() {
	openUser = ""
	openID = ""
	openPasswordStdin = false
	openJSON = false
}

// openedDesign is the --json shape of an opened design.
type openedDesign struct {
	DesignID       string          `json:"designId"`
	OwnerID        string          `json:"ownerId"`
	CounterpartyID string          `json:"counterpartyId"`
	Role           access.Role     `json:"role"`
	CreatedAt      time.Time       `json:"createdAt"`
	SignatureValid bool            `json:"signatureValid"`
	Payload        json.RawMessage `json:"payload"`
}

var designsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Decrypt a design you uploaded or were assigned",
	Long: `Decrypts a design and checks its owner's signature.

Only the customer who uploaded a design and its assigned stylist can open
it. A design whose signature does not verify is still shown, with a warning.

Examples:
  stylevault designs open --user vera --id 2f1c9a7e-...
  stylevault designs open --user alice --id 2f1c9a7e-... --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting designs open command")

		userID, err := resolveUser(openUser)
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}

		password, err := readPassword(cmd, openPasswordStdin, false)
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}
		defer password.Destroy()

		svc, err := openService()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Decrypting design...")
		defer cleanup()

		result, err := svc.Retrieve(context.Background(), workflows.RetrieveOptions{
			DesignID: openID,
			ViewerID: userID,
			Password: password,
		})
		if err != nil {
			return reportError(spinner, err)
		}
		spinner.FinalMSG = ""

		if openJSON {
			data, err := json.MarshalIndent(openedDesign{
				DesignID:       result.DesignID,
				OwnerID:        result.OwnerID,
				CounterpartyID: result.CounterpartyID,
				Role:           result.Role,
				CreatedAt:      result.CreatedAt,
				SignatureValid: result.SignatureValid,
				Payload:        result.Payload,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal design to JSON: %w", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, result.Payload, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(result.Payload)
		}
		spinner.FinalMSG = fmt.Sprintf("design:    %s\nowner:     %s\nstylist:   %s\nsignature: %s\n\n%s",
			result.DesignID, result.OwnerID, result.CounterpartyID, ui.Signature(result.SignatureValid), pretty.String())
		return nil
	},
}
