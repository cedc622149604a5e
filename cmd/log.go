package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/audit"
	"github.com/stylevault/stylevault/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by user ID")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logUser = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of key, design and assignment operations.

Shows who did what and when. Use filters to narrow down the results.

Examples:
  stylevault log                                     # View full log
  stylevault log -n 10                               # Last 10 entries
  stylevault log --reverse                           # Most recent first
  stylevault log --user vera                         # Filter by user
  stylevault log --operation access_denied           # Refused opens
  stylevault log --since 2025-01-01                  # Filter by date
  stylevault log --json                              # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	svc, err := openService()
	if err != nil {
		return err
	}

	result, err := svc.Log(context.Background(), workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		User:       logUser,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		fmt.Println(formatError(err))
		return ErrAlreadyReported
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}
	if logOneline {
		outputLogOneline(result.Entries)
		return nil
	}
	outputLogDefault(result.Entries)
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%s %s %s %s\n", workflows.FormatDate(e.Timestamp), e.UserID, e.Operation, workflows.FormatDetails(e))
	}
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%-19s  %-16s  %-19s  %s\n", workflows.FormatDateTime(e.Timestamp), e.UserID, e.Operation, workflows.FormatDetails(e))
	}
}
