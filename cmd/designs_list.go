package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/utils"
	"github.com/stylevault/stylevault/internal/workflows"
)

var (
	listUser  string
	listMatch string
	listJSON  bool
)

func init() {
	designsListCmd.Flags().StringVarP(&listUser, "user", "u", "", "only designs this user owns or was assigned")
	designsListCmd.Flags().StringVar(&listMatch, "match", "", `glob over design IDs, e.g. "2f1c*"`)
	designsListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON array")
}

// resetListCommandState resets the list command's global state for testing.
func resetListCommandState() {
	listUser = ""
	listMatch = ""
	listJSON = false
}

type listedDesign struct {
	DesignID         string    `json:"designId"`
	OwnerID          string    `json:"ownerId"`
	CounterpartyID   string    `json:"counterpartyId"`
	AssignmentMethod string    `json:"assignmentMethod"`
	Recipients       []string  `json:"recipients"`
	CreatedAt        time.Time `json:"createdAt"`
}

var designsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored designs without decrypting them",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting designs list command")

		svc, err := openService()
		if err != nil {
			return err
		}

		records, err := svc.ListDesigns(context.Background(), workflows.ListDesignsOptions{
			UserID: listUser,
			Match:  listMatch,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}
		Logger.Debugf("Found %d designs", len(records))

		if listJSON {
			out := make([]listedDesign, 0, len(records))
			for _, rec := range records {
				var recipients []string
				if rec.Envelope != nil {
					recipients = rec.Envelope.Recipients()
				}
				out = append(out, listedDesign{
					DesignID:         rec.ID,
					OwnerID:          rec.OwnerID,
					CounterpartyID:   rec.CounterpartyID,
					AssignmentMethod: rec.AssignmentMethod,
					Recipients:       recipients,
					CreatedAt:        rec.CreatedAt,
				})
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal designs to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(records) == 0 {
			fmt.Println("No designs found.")
			return nil
		}

		fmt.Printf("%-8s  %-16s  %-16s  %-9s  %s\n", "ID", "OWNER", "STYLIST", "METHOD", "CREATED")
		for _, rec := range records {
			fmt.Printf("%-8s  %-16s  %-16s  %-9s  %s\n",
				utils.ShortID(rec.ID), rec.OwnerID, rec.CounterpartyID, rec.AssignmentMethod,
				rec.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
