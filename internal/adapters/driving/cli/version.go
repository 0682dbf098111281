package cli

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Prints the version, the commit and Go toolchain it was built from when
known, and the default model of each language model provider.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("notion-digest version %s\n", version)
		if info, ok := readBuildInfo(); ok {
			if rev := buildSetting(info, "vcs.revision"); rev != "" {
				if len(rev) > 12 {
					rev = rev[:12]
				}
				if buildSetting(info, "vcs.modified") == "true" {
					rev += "-dirty"
				}
				cmd.Printf("  commit: %s\n", rev)
			}
			cmd.Printf("  go:     %s\n", info.GoVersion)
		}
		models := domain.DefaultLLMModels()
		for _, p := range []domain.AIProvider{domain.AIProviderGemini, domain.AIProviderOllama} {
			cmd.Printf("  %-7s default model %s\n", p.String()+":", models[p])
		}
	},
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
