package cmd

import (
	"fmt"
	"os"

	"github.com/andresmejia3/facewatch/internal/config"
	"github.com/andresmejia3/facewatch/internal/utils"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the --config path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if err := runConfigInit(configPath, Cfg, configForce); err != nil {
			utils.ShowError("Failed to write configuration", err, nil)
			return err
		}
		fmt.Printf("✅ Configuration written to %s\n", configPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigInit saves cfg (defaults when nil) to path, refusing to replace an
// existing file unless force is set.
func runConfigInit(path string, cfg *config.Config, force bool) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return cfg.Save(path)
}
