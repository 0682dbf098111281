package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// rewriteTransport sends every request to the test server.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	c, err := NewClient(Config{
		APIKey:         "secret_test",
		DatabaseID:     "db-1",
		StatusProperty: "処理済み",
		HTTPClient:     &http.Client{Transport: rewriteTransport{target: target}},
		RateLimit:      &RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100},
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return c
}

const queryResponse = `{
  "object": "list",
  "results": [
    {
      "object": "page",
      "id": "page-1",
      "url": "https://www.notion.so/page-1",
      "properties": {
        "名前": {"id": "title", "type": "title", "title": [{"type": "text", "plain_text": "Kick"}, {"type": "text", "plain_text": "off"}]},
        "本文": {"id": "b", "type": "rich_text", "rich_text": [{"type": "text", "plain_text": "agenda"}]},
        "処理済み": {"id": "c", "type": "checkbox", "checkbox": false}
      }
    },
    {
      "object": "page",
      "id": "page-2",
      "url": "https://www.notion.so/page-2",
      "properties": {
        "名前": {"id": "title", "type": "title", "title": []}
      }
    }
  ],
  "has_more": true,
  "next_cursor": "abc"
}`

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{DatabaseID: "db"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = NewClient(Config{APIKey: "k"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestClient_QueryUnprocessed(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Notion-Version"))

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(queryResponse))
	})

	records, err := c.QueryUnprocessed(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, float64(100), body["page_size"])
	filter, ok := body["filter"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "処理済み", filter["property"])
	assert.Equal(t, map[string]any{"does_not_equal": true}, filter["checkbox"])

	first := records[0]
	assert.Equal(t, "page-1", first.ID)
	assert.Equal(t, "https://www.notion.so/page-1", first.URL)
	assert.Equal(t, domain.TitleValue{Runs: []string{"Kick", "off"}}, first.Properties["名前"])
	assert.Equal(t, domain.RichTextValue{Runs: []string{"agenda"}}, first.Properties["本文"])
	assert.Equal(t, domain.BooleanValue{Value: false}, first.Properties["処理済み"])

	assert.Equal(t, "page-2", records[1].ID)
}

func TestClient_QueryUnprocessed_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	})

	records, err := c.QueryUnprocessed(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "API token is invalid.")
}

func TestClient_QueryUnprocessed_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target, _ := url.Parse(server.URL)
	server.Close()

	c, err := NewClient(Config{
		APIKey:         "k",
		DatabaseID:     "db",
		StatusProperty: "done",
		HTTPClient:     &http.Client{Transport: rewriteTransport{target: target}},
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	_, err = c.QueryUnprocessed(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
}

func TestClient_ListBlocks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/blocks/page-1/children", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page_size"))

		_, _ = w.Write([]byte(`{
		  "object": "list",
		  "results": [
		    {"object": "block", "id": "b1", "type": "heading_2", "heading_2": {"rich_text": [{"plain_text": "Agenda"}]}},
		    {"object": "block", "id": "b2", "type": "divider", "divider": {}},
		    {"object": "block", "id": "b3", "type": "paragraph", "paragraph": {"rich_text": [{"plain_text": "a "}, {"plain_text": "b"}]}},
		    {"object": "block", "id": "b4", "type": "to_do", "to_do": {"rich_text": [{"plain_text": "ship"}], "checked": false}}
		  ],
		  "has_more": false
		}`))
	})

	blocks, err := c.ListBlocks(context.Background(), "page-1")
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, domain.Block{Type: "heading_2", Text: "Agenda"}, blocks[0])
	assert.Equal(t, domain.Block{Type: "divider"}, blocks[1])
	assert.Equal(t, domain.Block{Type: "paragraph", Text: "a b"}, blocks[2])
	assert.Equal(t, domain.Block{Type: "to_do", Text: "ship"}, blocks[3])
}

func TestClient_ListBlocks_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find block"}`))
	})

	_, err := c.ListBlocks(context.Background(), "page-1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_MarkProcessed(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/pages/page-1", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"object":"page","id":"page-1","properties":{}}`))
	})

	d := c.MarkProcessed(context.Background(), "page-1")
	assert.True(t, d.OK())

	props, ok := body["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"checkbox": true}, props["処理済み"])
}

func TestClient_MarkProcessed_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"処理済み is not a property that exists."}`))
	})

	d := c.MarkProcessed(context.Background(), "page-1")
	assert.False(t, d.OK())
	assert.Contains(t, d.Reason(), "is not a property that exists")
}

func TestClient_Me(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"user","id":"bot-1","type":"bot","name":"Digest Bot","bot":{}}`))
	})

	name, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Digest Bot", name)
}

func TestClient_Me_UnauthorizedHasHint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	})

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, errors.FlattenHints(err), "NOTION_API_KEY")
}

func TestClient_DatabaseTitle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/databases/db-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"database","id":"db-1","title":[{"type":"text","plain_text":"Meeting "},{"type":"text","plain_text":"notes"}],"properties":{}}`))
	})

	title, err := c.DatabaseTitle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", title)
}

func TestClient_DatabaseTitle_NotSharedHasHint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find database with ID: db-1."}`))
	})

	_, err := c.DatabaseTitle(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, errors.FlattenHints(err), "share the database")
}

func TestClient_Ping(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/v1/users/me" {
			_, _ = w.Write([]byte(`{"object":"user","id":"bot-1","type":"bot","name":"Digest Bot","bot":{}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"database","id":"db-1","title":[],"properties":{}}`))
	})

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, []string{"/v1/users/me", "/v1/databases/db-1"}, paths)
}
