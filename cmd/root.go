package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/stylevault/stylevault/internal/logging"
)

// ErrAlreadyReported is returned after a command has printed its own failure
// message; main exits non-zero without printing it again.
var ErrAlreadyReported = errors.New("already reported")

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	RootCmd = &cobra.Command{
		Use:   "stylevault",
		Short: "stylevault - end-to-end encrypted design exchange between customers and stylists.",
		Long: `stylevault keeps style designs readable only by the customer who uploaded
them and the stylist assigned to them.

Each design is encrypted once and its key is wrapped for exactly two
recipients. Designs are signed by their owner, and every upload, view and
refusal is written to an audit log.

Usage:
  stylevault <command> [flags]

Available Commands:
  keys       Provision password-protected key pairs
  designs    Upload, open and list designs
  stylists   Manage the stylist roster
  log        View the audit log
  config     Show or initialize configuration

Run 'stylevault help <command>' for more details on a specific command.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner(cmd.OutOrStdout())
			return cmd.Help()
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: <user config dir>/stylevault/config.toml)")

	RootCmd.AddCommand(keysCmd)
	RootCmd.AddCommand(designsCmd)
	RootCmd.AddCommand(stylistsCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(configCmd)
}

func printBanner(w io.Writer) {
	banner := figure.NewFigure("stylevault", "small", true).String()
	if color.NoColor {
		fmt.Fprintln(w, banner)
		return
	}
	fmt.Fprintln(w, color.CyanString(banner))
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetKeysCommandState()
	resetDesignsCommandState()
	resetStylistsCommandState()
	resetLogCommandState()
	resetConfigCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears Changed on every flag so one test's flags do not
// leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}
