package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notion-digest/internal/adapters/driven/ai"
	"github.com/custodia-labs/notion-digest/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/notion-digest/internal/connectors/notion"
	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

const checkTimeout = 15 * time.Second

// probe is a single connectivity check. run returns a short detail line.
type probe struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// newProbes builds the checks for the given settings. Replaced in tests.
var newProbes = buildProbes

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify credentials and connectivity",
	Long: `Checks that the Notion token can read its bot user and the configured
database, and that the language model answers. No record is read or
modified and nothing is posted to Slack.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if missing := settings.Missing(); len(missing) > 0 {
		cmd.Printf("missing: %v\n", missing)
	}

	st := styles.For(cmd.OutOrStdout())
	failed := 0
	for _, p := range newProbes(settings) {
		pctx, cancel := context.WithTimeout(ctx, checkTimeout)
		detail, err := p.run(pctx)
		cancel()
		if err != nil {
			failed++
			cmd.Printf("%-7s %s %v\n", p.name, st.Error("FAIL"), err)
			for _, hint := range errors.GetAllHints(err) {
				cmd.Printf("        %s %s\n", st.Warning("hint:"), hint)
			}
			continue
		}
		cmd.Printf("%-7s %s   %s\n", p.name, st.Success("ok"), detail)
	}

	if failed > 0 {
		return errors.Newf("%d check(s) failed", failed)
	}
	return nil
}

func buildProbes(settings domain.Settings) []probe {
	return []probe{
		{name: "notion", run: func(ctx context.Context) (string, error) {
			client, err := notion.NewClient(notion.Config{
				APIKey:         settings.Notion.APIKey,
				DatabaseID:     settings.Notion.DatabaseID,
				StatusProperty: settings.Notion.StatusProperty,
			}, logger.Named("notion"))
			if err != nil {
				return "", err
			}
			name, err := client.Me(ctx)
			if err != nil {
				return "", err
			}
			title, err := client.DatabaseTitle(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("bot %s, database %q", name, title), nil
		}},
		{name: "llm", run: func(ctx context.Context) (string, error) {
			if err := ai.ValidateLLMConfig(ctx, &settings.LLM); err != nil {
				return "", err
			}
			return settings.LLM.Provider.Description() + " " + settings.LLM.Model, nil
		}},
		{name: "slack", run: func(context.Context) (string, error) {
			if settings.Slack.WebhookURL == "" {
				return "", errors.WithHint(errors.New("webhook URL is not set"),
					"set SLACK_WEBHOOK_URL to an incoming webhook URL")
			}
			return "webhook configured (not called)", nil
		}},
	}
}
