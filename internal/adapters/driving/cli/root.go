package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notion-digest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notion-digest/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driving"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitInterrupted = 130
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// errItemsFailed reports a run that finished with at least one failed item.
var errItemsFailed = errors.New("one or more items failed")

// Global flags.
var (
	verbosity  int
	configPath string
	logJSON    bool
)

// Run flags, shared by the root command and "run".
var (
	dryRun      bool
	runLimit    int
	instruction string
)

// loadSettings reads the effective settings. Replaced in tests.
var loadSettings = func(path string) (domain.Settings, error) {
	return file.NewLoader(file.LoaderOptions{ConfigFile: path}).Load()
}

// newPipeline builds the pipeline for the given settings. Replaced in tests.
var newPipeline = buildPipeline

var rootCmd = &cobra.Command{
	Use:   "notion-digest",
	Short: "Turn unprocessed Notion records into Slack digests",
	Long: `Reads every unchecked record from a Notion database, rewrites it with
a language model and posts the result to Slack. Successful records are
checked off so the next run skips them.

Running without a subcommand is the same as "notion-digest run".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.Initialize(verbosity, logJSON)
		return nil
	},
	RunE: runPipeline,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process unprocessed records once",
	Args:  cobra.NoArgs,
	RunE:  runPipeline,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v for debug)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	addRunFlags(rootCmd)
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list candidates without transforming, notifying or committing")
	cmd.Flags().IntVar(&runLimit, "limit", 0, fmt.Sprintf("process at most N records (0..%d, 0 means all)", driven.PageSize))
	cmd.Flags().StringVar(&instruction, "instruction", "",
		"system instruction for this run: a file path or a name under the instructions directory")
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	defer logger.Sync()
	if err != nil && !errors.Is(err, errItemsFailed) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return exitCode(ctx, err)
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return ExitInterrupted
	case errors.Is(err, domain.ErrConfiguration):
		return ExitConfig
	default:
		return ExitFailure
	}
}

func printError(w io.Writer, err error) {
	st := styles.For(w)
	_, _ = fmt.Fprintf(w, "%s %v\n", st.Error("Error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		_, _ = fmt.Fprintf(w, "%s %s\n", st.Warning("Hint:"), hint)
	}
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if runLimit < 0 || runLimit > driven.PageSize {
		return errors.Mark(errors.Newf("--limit must be between 0 and %d, got %d", driven.PageSize, runLimit),
			domain.ErrConfiguration)
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return errors.WithHint(errors.Mark(err, domain.ErrConfiguration),
			"set the missing values in the environment, a .env file or the config file")
	}

	override, err := resolveInstruction(instruction, settings.LLM.SystemInstruction)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Named("cli").Warnw("close generator", logger.FieldError, err)
		}
	}()

	report, err := pipeline.Run(ctx, driving.RunOptions{
		DryRun:      dryRun,
		Limit:       runLimit,
		Instruction: override,
	})
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) && ctx.Err() == nil {
			logger.Named("cli").Errorw("source unavailable, nothing processed", logger.FieldError, err)
			return nil
		}
		return err
	}
	if report.Failed() > 0 {
		return errItemsFailed
	}
	return nil
}

// resolveInstruction loads the --instruction override. An empty flag keeps
// the configured instruction.
func resolveInstruction(flag, fallback string) (string, error) {
	if flag == "" {
		return "", nil
	}
	store, err := file.NewInstructionStore("", fallback)
	if err != nil {
		return "", errors.Mark(err, domain.ErrConfiguration)
	}
	text, err := store.Load(flag)
	if err != nil {
		return "", errors.Mark(err, domain.ErrConfiguration)
	}
	return text, nil
}

func printReport(cmd *cobra.Command, report *domain.RunReport) {
	st := styles.For(cmd.OutOrStdout())
	if report.DryRun {
		cmd.Printf("%s %d candidate(s)\n", st.Title("Dry run:"), len(report.Candidates))
		for _, item := range report.Candidates {
			cmd.Printf("  - %s %s\n", item.Title, st.Muted("("+item.ID+")"))
		}
		return
	}
	for _, res := range report.Results {
		if !res.Outcome.OK() {
			cmd.Printf("  %s %s %s: %s\n", st.Error("failed:"), res.Item.Title, st.Muted("("+res.Item.ID+")"),
				res.Outcome.Reason())
		}
	}
	summary := fmt.Sprintf("succeeded=%d failed=%d", report.Succeeded(), report.Failed())
	if report.Failed() > 0 {
		summary = st.Warning(summary)
	} else {
		summary = st.Success(summary)
	}
	cmd.Println(summary)
}
