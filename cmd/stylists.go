package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/ui"
	"github.com/stylevault/stylevault/internal/workflows"
)

var (
	stylistID   string
	stylistName string
	stylistMax  int
	stylistJSON bool
)

var stylistsCmd = &cobra.Command{
	Use:   "stylists",
	Short: "Manage the stylist roster",
}

func init() {
	stylistsAddCmd.Flags().StringVar(&stylistID, "id", "", "stylist user ID")
	stylistsAddCmd.Flags().StringVar(&stylistName, "name", "", "display name")
	stylistsAddCmd.Flags().IntVar(&stylistMax, "max", 0, "maximum concurrent designs (default from config)")
	_ = stylistsAddCmd.MarkFlagRequired("id")
	_ = stylistsAddCmd.MarkFlagRequired("name")

	stylistsListCmd.Flags().BoolVar(&stylistJSON, "json", false, "output as JSON array")

	stylistsCmd.AddCommand(stylistsAddCmd)
	stylistsCmd.AddCommand(stylistsListCmd)
}

// resetStylistsCommandState resets the stylists commands' global state for testing.
func resetStylistsCommandState() {
	stylistID = ""
	stylistName = ""
	stylistMax = 0
	stylistJSON = false
}

var stylistsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Put a stylist on the roster",
	Long: `Adds an active, available stylist to the roster.

The stylist also needs keys before designs can be assigned to them:
  stylevault keys create --user <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting stylists add command")

		svc, err := openService()
		if err != nil {
			return err
		}

		info, err := svc.AddStylist(context.Background(), workflows.AddStylistOptions{
			ID:             stylistID,
			Name:           stylistName,
			MaxAssignments: stylistMax,
		})
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}

		fmt.Println(ui.Done(fmt.Sprintf("Added stylist %s %s, up to %d designs",
			info.Name, ui.Muted.Sprint(info.ID), info.MaxAssignments)))
		return nil
	},
}

var stylistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the roster with current workloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting stylists list command")

		svc, err := openService()
		if err != nil {
			return err
		}

		stylists, err := svc.ListStylists(context.Background())
		if err != nil {
			fmt.Println(formatError(err))
			return ErrAlreadyReported
		}

		if stylistJSON {
			data, err := json.MarshalIndent(stylists, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal stylists to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(stylists) == 0 {
			fmt.Println("No stylists on the roster.")
			return nil
		}

		fmt.Printf("%-16s  %-20s  %-7s  %-9s  %s\n", "ID", "NAME", "LOAD", "AVAILABLE", "KEYS")
		for _, s := range stylists {
			available := "yes"
			if !s.Active {
				available = "inactive"
			} else if !s.Available {
				available = "no"
			}
			keys := "yes"
			if !s.HasKeys {
				keys = "missing"
			}
			fmt.Printf("%-16s  %-20s  %-7s  %-9s  %s\n", s.ID, s.Name,
				fmt.Sprintf("%d/%d", s.CurrentAssignments, s.MaxAssignments), available, keys)
		}
		return nil
	},
}
