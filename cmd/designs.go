package cmd

import "github.com/spf13/cobra"

var designsCmd = &cobra.Command{
	Use:   "designs",
	Short: "Upload, open and list encrypted designs",
}

func init() {
	designsCmd.AddCommand(designsUploadCmd)
	designsCmd.AddCommand(designsOpenCmd)
	designsCmd.AddCommand(designsListCmd)
}

// resetDesignsCommandState resets the designs commands' global state for testing.
func resetDesignsCommandState() {
	resetUploadCommandState()
	resetOpenCommandState()
	resetListCommandState()
}
