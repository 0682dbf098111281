package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driving"
)

// mockPipeline implements runner for testing.
type mockPipeline struct {
	report *domain.RunReport
	err    error
	opts   []driving.RunOptions
	closed int
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.opts = append(m.opts, opts)
	return m.report, m.err
}

func (m *mockPipeline) Close() error {
	m.closed++
	return nil
}

func validSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.Notion.APIKey = "secret_notion"
	s.Notion.DatabaseID = "db-1"
	s.LLM.APIKey = "gemini-key"
	s.LLM.SystemInstruction = "default instruction"
	s.Slack.WebhookURL = "https://hooks.slack.com/services/T/B/X"
	return s
}

// setupRootTest swaps the settings loader and pipeline factory and
// returns a buffer capturing command output.
func setupRootTest(t *testing.T, settings domain.Settings, p *mockPipeline) *bytes.Buffer {
	t.Helper()
	oldLoad, oldNew := loadSettings, newPipeline
	loadSettings = func(string) (domain.Settings, error) { return settings, nil }
	newPipeline = func(context.Context, domain.Settings) (runner, error) { return p, nil }

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		loadSettings, newPipeline = oldLoad, oldNew
		dryRun, runLimit, instruction, configPath = false, 0, "", ""
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return buf
}

func reportWith(outcomes ...domain.Outcome) *domain.RunReport {
	r := &domain.RunReport{RunID: "run-1"}
	for i, o := range outcomes {
		id := string(rune('a' + i))
		r.Results = append(r.Results, domain.ProcessingResult{
			Item:    domain.Item{ID: id, Title: "Item " + id},
			Outcome: o,
		})
	}
	return r
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "notion-digest", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-json"))
	assert.NotNil(t, rootCmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, runCmd.Flags().Lookup("limit"))
}

func TestRootCmd_AllSucceeded(t *testing.T) {
	p := &mockPipeline{report: reportWith(domain.Success("x"), domain.Success("y"))}
	buf := setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{})

	code := Execute(context.Background())

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, buf.String(), "succeeded=2 failed=0")
	require.Len(t, p.opts, 1)
	assert.False(t, p.opts[0].DryRun)
	assert.Empty(t, p.opts[0].Instruction)
	assert.Equal(t, 1, p.closed)
}

func TestRootCmd_ItemFailureExitsOne(t *testing.T) {
	p := &mockPipeline{report: reportWith(domain.Success("x"), domain.Failure("empty content"))}
	buf := setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{"run"})

	code := Execute(context.Background())

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, buf.String(), "succeeded=1 failed=1")
	assert.Contains(t, buf.String(), "failed: Item b (b): empty content")
	assert.NotContains(t, buf.String(), "Error:")
	assert.Equal(t, 1, p.closed)
}

func TestRootCmd_NoItems(t *testing.T) {
	p := &mockPipeline{report: &domain.RunReport{}}
	buf := setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{})

	assert.Equal(t, ExitOK, Execute(context.Background()))
	assert.Contains(t, buf.String(), "succeeded=0 failed=0")
}

func TestRootCmd_DryRun(t *testing.T) {
	p := &mockPipeline{report: &domain.RunReport{
		DryRun: true,
		Candidates: []domain.Item{
			{ID: "p1", Title: "One"},
			{ID: "p2", Title: "Two"},
			{ID: "p3", Title: "Three"},
		},
	}}
	buf := setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{"--dry-run", "--limit", "3"})

	assert.Equal(t, ExitOK, Execute(context.Background()))
	require.Len(t, p.opts, 1)
	assert.True(t, p.opts[0].DryRun)
	assert.Equal(t, 3, p.opts[0].Limit)
	assert.Contains(t, buf.String(), "Dry run: 3 candidate(s)")
	assert.Contains(t, buf.String(), "  - Two (p2)")
}

func TestRootCmd_MissingSettingsExitsTwo(t *testing.T) {
	p := &mockPipeline{}
	buf := setupRootTest(t, domain.DefaultSettings(), p)
	rootCmd.SetArgs([]string{})

	code := Execute(context.Background())

	assert.Equal(t, ExitConfig, code)
	assert.Contains(t, buf.String(), "NOTION_API_KEY")
	assert.Contains(t, buf.String(), "Hint:")
	assert.Empty(t, p.opts)
}

func TestRootCmd_LimitOutOfRange(t *testing.T) {
	p := &mockPipeline{}
	setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{"--limit", "101"})

	assert.Equal(t, ExitConfig, Execute(context.Background()))
	assert.Empty(t, p.opts)
}

func TestRootCmd_SourceUnavailableExitsZero(t *testing.T) {
	p := &mockPipeline{
		report: &domain.RunReport{},
		err:    errors.Mark(errors.New("dial tcp: timeout"), domain.ErrSourceUnavailable),
	}
	buf := setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{})

	assert.Equal(t, ExitOK, Execute(context.Background()))
	assert.Contains(t, buf.String(), "succeeded=0 failed=0")
	assert.Contains(t, buf.String(), "source unavailable")
	assert.Equal(t, 1, p.closed)
}

func TestRootCmd_CancelledExits130(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &mockPipeline{report: reportWith(domain.Success("x")), err: errors.Wrap(context.Canceled, "run interrupted")}
	setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{})

	assert.Equal(t, ExitInterrupted, Execute(ctx))
}

func TestRootCmd_UnexpectedErrorExitsOne(t *testing.T) {
	setupRootTest(t, validSettings(), &mockPipeline{})
	newPipeline = func(context.Context, domain.Settings) (runner, error) {
		return nil, errors.New("boom")
	}
	rootCmd.SetArgs([]string{})

	assert.Equal(t, ExitFailure, Execute(context.Background()))
}

func TestRootCmd_InstructionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haiku.md")
	require.NoError(t, os.WriteFile(path, []byte("Answer as a haiku.\n"), 0o600))

	p := &mockPipeline{report: reportWith(domain.Success("x"))}
	setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{"--instruction", path})

	assert.Equal(t, ExitOK, Execute(context.Background()))
	require.Len(t, p.opts, 1)
	assert.Equal(t, "Answer as a haiku.", p.opts[0].Instruction)
}

func TestRootCmd_InstructionNotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p := &mockPipeline{}
	setupRootTest(t, validSettings(), p)
	rootCmd.SetArgs([]string{"--instruction", "no-such-instruction"})

	assert.Equal(t, ExitConfig, Execute(context.Background()))
	assert.Empty(t, p.opts)
}

func TestExitCode(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{name: "nil", ctx: context.Background(), err: nil, want: ExitOK},
		{name: "items failed", ctx: context.Background(), err: errItemsFailed, want: ExitFailure},
		{name: "config", ctx: context.Background(), err: errors.Wrap(domain.ErrConfiguration, "x"), want: ExitConfig},
		{name: "canceled", ctx: context.Background(), err: errors.Wrap(context.Canceled, "x"), want: ExitInterrupted},
		{name: "context done", ctx: cancelled, err: errors.New("x"), want: ExitInterrupted},
		{name: "other", ctx: context.Background(), err: errors.New("x"), want: ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.ctx, tt.err))
		})
	}
}

func TestPrintError_IncludesHints(t *testing.T) {
	buf := new(bytes.Buffer)
	printError(buf, errors.WithHint(errors.New("bad"), "try again"))
	assert.Equal(t, "Error: bad\nHint: try again\n", buf.String())
}
