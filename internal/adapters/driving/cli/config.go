package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notion-digest/internal/adapters/driven/config/file"
)

var revealSecrets bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Prints the settings after defaults, the config file, .env and the
environment have been merged. Secrets are masked unless --reveal is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings(configPath)
		if err != nil {
			return err
		}
		out, err := file.Render(settings, revealSecrets)
		if err != nil {
			return err
		}
		cmd.Print(string(out))
		if missing := settings.Missing(); len(missing) > 0 {
			cmd.Printf("# missing: %v\n", missing)
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&revealSecrets, "reveal", false, "print secrets in full")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
