package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrSourceUnavailable", ErrSourceUnavailable},
		{"ErrEmptyContent", ErrEmptyContent},
		{"ErrEmptyInput", ErrEmptyInput},
		{"ErrModelFailure", ErrModelFailure},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrUnsupportedProvider", ErrUnsupportedProvider},
		{"ErrNotFound", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrEmptyContent_MatchesReason(t *testing.T) {
	assert.Equal(t, ReasonEmptyContent, ErrEmptyContent.Error())
}

func TestAttributeValue_Kinds(t *testing.T) {
	tests := []struct {
		value AttributeValue
		kind  AttributeKind
	}{
		{TitleValue{}, KindTitle},
		{RichTextValue{}, KindRichText},
		{NumberValue{}, KindNumber},
		{SelectValue{}, KindSelect},
		{MultiSelectValue{}, KindMultiSelect},
		{DateRangeValue{}, KindDateRange},
		{BooleanValue{}, KindBoolean},
		{URLValue{}, KindURL},
		{EmailValue{}, KindEmail},
		{PhoneValue{}, KindPhone},
		{PeopleValue{}, KindPeople},
		{RelationValue{}, KindRelation},
		{UnsupportedValue{Type: "formula"}, KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
		})
	}
}

func TestItem_NonEmpty(t *testing.T) {
	item := Item{
		ID:    "page-1",
		Title: "Weekly sync",
		Content: []Field{
			{Name: "タイトル", Value: "Weekly sync"},
			{Name: "本文", Value: ""},
			{Name: "Notes", Value: "ship it"},
		},
	}

	nonEmpty := item.NonEmpty()
	require.Len(t, nonEmpty, 2)
	assert.Equal(t, "タイトル", nonEmpty[0].Name)
	assert.Equal(t, "Notes", nonEmpty[1].Name)
}

func TestOutcome(t *testing.T) {
	ok := Success("summary")
	assert.True(t, ok.OK())
	assert.Equal(t, "summary", ok.Text())
	assert.Empty(t, ok.Reason())
	assert.Equal(t, "success", ok.String())

	failed := Failure(ReasonEmptyContent)
	assert.False(t, failed.OK())
	assert.Empty(t, failed.Text())
	assert.Equal(t, "empty content", failed.Reason())
	assert.Equal(t, "failure: empty content", failed.String())
}

func TestDelivery(t *testing.T) {
	assert.True(t, Delivered().OK())
	assert.Empty(t, Delivered().Reason())

	d := NotDelivered("status 500")
	assert.False(t, d.OK())
	assert.Equal(t, "status 500", d.Reason())

	var zero Delivery
	assert.False(t, zero.OK())
}

func TestRunReport_Counts(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &RunReport{
		Results: []ProcessingResult{
			{Outcome: Success("a")},
			{Outcome: Failure("boom")},
			{Outcome: Success("c"), Notified: false, Committed: false},
		},
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
	}

	assert.Equal(t, 3, report.Total())
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.False(t, report.AllSucceeded())
	assert.Equal(t, 3*time.Second, report.Duration())
}

func TestRunReport_EmptyCountsAsSuccess(t *testing.T) {
	report := &RunReport{}
	assert.True(t, report.AllSucceeded())
	assert.Zero(t, report.Duration())
}

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderGemini.IsValid())
	assert.True(t, AIProviderOllama.IsValid())
	assert.False(t, AIProvider("openai").IsValid())

	assert.True(t, AIProviderGemini.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())

	assert.Equal(t, "Google Gemini (cloud)", AIProviderGemini.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "処理済み", s.Notion.StatusProperty)
	assert.Equal(t, []string{"タイトル", "本文"}, s.Notion.ContentProperties)
	assert.Equal(t, "本文", s.Notion.BodyProperty)
	assert.Equal(t, AIProviderGemini, s.LLM.Provider)
	assert.Equal(t, "gemini-1.5-pro", s.LLM.Model)
	assert.InDelta(t, 0.7, s.LLM.Temperature, 1e-6)
	assert.InDelta(t, 0.95, s.LLM.TopP, 1e-6)
	assert.InDelta(t, 40, s.LLM.TopK, 1e-6)
	assert.Equal(t, int32(8192), s.LLM.MaxOutputTokens)
}

func TestSettings_Validate(t *testing.T) {
	t.Run("missing everything", func(t *testing.T) {
		err := DefaultSettings().Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
		assert.Contains(t, err.Error(), "NOTION_API_KEY")
		assert.Contains(t, err.Error(), "NOTION_DATABASE_ID")
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
		assert.Contains(t, err.Error(), "SLACK_WEBHOOK_URL")
	})

	t.Run("complete", func(t *testing.T) {
		s := validSettings()
		assert.NoError(t, s.Validate())
	})

	t.Run("ollama needs no api key", func(t *testing.T) {
		s := validSettings()
		s.LLM.Provider = AIProviderOllama
		s.LLM.APIKey = ""
		assert.NoError(t, s.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		s := validSettings()
		s.LLM.Provider = "openai"
		err := s.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
		assert.True(t, errors.Is(err, ErrUnsupportedProvider))
	})

	t.Run("no content properties", func(t *testing.T) {
		s := validSettings()
		s.Notion.ContentProperties = nil
		assert.ErrorIs(t, s.Validate(), ErrConfiguration)
	})
}

func validSettings() Settings {
	s := DefaultSettings()
	s.Notion.APIKey = "secret_abc"
	s.Notion.DatabaseID = "db-123"
	s.LLM.APIKey = "gemini-key"
	s.Slack.WebhookURL = "https://hooks.slack.com/services/T/B/X"
	return s
}
