package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/configs"
	"github.com/stylevault/stylevault/internal/ui"
	"github.com/stylevault/stylevault/internal/utils"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		settings, err := configs.ResolveSettings(configPath)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve settings: %v", err)
		}

		if _, err := os.Stat(settings.ConfigPath); err == nil && !configInitForce {
			fmt.Println(ui.Fail(ui.Path.Sprint(settings.ConfigPath)+" already exists") + "\n" +
				ui.Hint("To overwrite it, run", "stylevault config init --force"))
			return ErrAlreadyReported
		}

		if err := configs.Save(settings.ConfigPath, configs.Default()); err != nil {
			return Logger.ErrorfAndReturn("failed to write config: %v", err)
		}
		fmt.Println(ui.Done("Wrote " + ui.Path.Sprint(settings.ConfigPath)))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and data locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		settings, err := configs.ResolveSettings(configPath)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve settings: %v", err)
		}
		cfg, err := configs.Load(settings.ConfigPath)
		if err != nil {
			fmt.Println(ui.Fail(err.Error()))
			return ErrAlreadyReported
		}

		paths := configs.PathsFor(cfg.DataDir(settings))
		fmt.Printf("config file: %s\n", ui.Path.Sprint(settings.ConfigPath))
		fmt.Printf("data:%s\n", utils.FormatPaths([]string{paths.RegistryDir, paths.DesignsDir, paths.RosterPath, paths.AuditPath}))

		if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	},
}
