package services

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockRecordStore implements driven.RecordStore for testing.
type mockRecordStore struct {
	records  []domain.Record
	queryErr error
	blocks   map[string][]domain.Block
	blockErr error

	queryCalls int
	blockCalls []string
}

func (m *mockRecordStore) QueryUnprocessed(_ context.Context) ([]domain.Record, error) {
	m.queryCalls++
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.records, nil
}

func (m *mockRecordStore) ListBlocks(_ context.Context, recordID string) ([]domain.Block, error) {
	m.blockCalls = append(m.blockCalls, recordID)
	if m.blockErr != nil {
		return nil, m.blockErr
	}
	return m.blocks[recordID], nil
}

func (m *mockRecordStore) Ping(_ context.Context) error { return nil }

// mockGenerator implements driven.Generator for testing.
// failOn makes Generate fail when the prompt contains the given text.
type mockGenerator struct {
	mu       sync.Mutex
	output   string
	err      error
	failOn   string
	panicOn  string
	prompts  []string
	options  []driven.GenerateOptions
	response func(prompt string) string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	m.mu.Unlock()

	if m.panicOn != "" && strings.Contains(prompt, m.panicOn) {
		panic("generator exploded")
	}
	if m.failOn != "" && strings.Contains(prompt, m.failOn) {
		return "", errors.New("model unavailable")
	}
	if m.err != nil {
		return "", m.err
	}
	if m.response != nil {
		return m.response(prompt), nil
	}
	return m.output, nil
}

func (m *mockGenerator) ModelName() string { return "mock-model" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error { return nil }
func (m *mockGenerator) calls() int { return len(m.prompts) }

// mockNotifier implements driven.Notifier for testing.
type mockNotifier struct {
	successDelivery domain.Delivery
	failureDelivery domain.Delivery
	panicOnSuccess  bool
	successes       []driven.SuccessNotice
	failures        []driven.FailureNotice
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		successDelivery: domain.Delivered(),
		failureDelivery: domain.Delivered(),
	}
}

func (m *mockNotifier) NotifySuccess(_ context.Context, n driven.SuccessNotice) domain.Delivery {
	m.successes = append(m.successes, n)
	if m.panicOnSuccess {
		panic("webhook client exploded")
	}
	return m.successDelivery
}

func (m *mockNotifier) NotifyFailure(_ context.Context, n driven.FailureNotice) domain.Delivery {
	m.failures = append(m.failures, n)
	return m.failureDelivery
}

// mockCommitter implements driven.Committer for testing.
type mockCommitter struct {
	delivery domain.Delivery
	panics   bool
	ids      []string
}

func newMockCommitter() *mockCommitter {
	return &mockCommitter{delivery: domain.Delivered()}
}

func (m *mockCommitter) MarkProcessed(_ context.Context, id string) domain.Delivery {
	m.ids = append(m.ids, id)
	if m.panics {
		panic("page update exploded")
	}
	return m.delivery
}

// record builds a Record with a title property and rich text fields.
func record(id, title string, fields map[string]string) domain.Record {
	props := map[string]domain.AttributeValue{
		"名前": domain.TitleValue{Runs: []string{title}},
	}
	for k, v := range fields {
		props[k] = domain.RichTextValue{Runs: []string{v}}
	}
	return domain.Record{
		ID:         id,
		URL:        "https://www.notion.so/" + id,
		Properties: props,
	}
}
