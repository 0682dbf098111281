package notion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is how often the client retries a 429 before giving up.
	MaxRetries = 3
)

// Ensure Client implements the interfaces.
var (
	_ driven.RecordStore = (*Client)(nil)
	_ driven.Committer   = (*Client)(nil)
)

// Config holds the settings for a Notion database.
type Config struct {
	// APIKey is the integration token.
	APIKey string

	// DatabaseID identifies the database to read from.
	DatabaseID string

	// StatusProperty names the processed checkbox.
	StatusProperty string

	// HTTPClient overrides the default client. Its timeout is left as is.
	HTTPClient *http.Client

	// RateLimit overrides DefaultRateLimit.
	RateLimit *RateLimitConfig
}

// Client wraps the notionapi client with rate limiting and domain mapping.
type Client struct {
	api         *notionapi.Client
	cfg         Config
	rateLimiter *RateLimiter
	log         *zap.SugaredLogger
}

// NewClient creates a Notion client.
func NewClient(cfg Config, log *zap.SugaredLogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.WithHint(errors.Mark(errors.New("notion: api key is required"), domain.ErrConfiguration),
			"set NOTION_API_KEY to the integration token")
	}
	if cfg.DatabaseID == "" {
		return nil, errors.WithHint(errors.Mark(errors.New("notion: database id is required"), domain.ErrConfiguration),
			"set NOTION_DATABASE_ID to the id in the database URL")
	}
	if log == nil {
		log = logger.Named("notion")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}

	limiter := NewRateLimiter()
	if cfg.RateLimit != nil {
		limiter = NewRateLimiterWithConfig(*cfg.RateLimit)
	}

	return &Client{
		api: notionapi.NewClient(
			notionapi.Token(cfg.APIKey),
			notionapi.WithHTTPClient(hc),
			notionapi.WithRetry(MaxRetries),
		),
		cfg:         cfg,
		rateLimiter: limiter,
		log:         log,
	}, nil
}

// QueryUnprocessed returns the first page of records whose status checkbox is unchecked.
func (c *Client) QueryUnprocessed(ctx context.Context) ([]domain.Record, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "rate limiter"), domain.ErrSourceUnavailable)
	}

	// notionapi omits a false "equals", so the unchecked test is expressed
	// as does_not_equal true.
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(c.cfg.DatabaseID), &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: c.cfg.StatusProperty,
			Checkbox: &notionapi.CheckboxFilterCondition{DoesNotEqual: true},
		},
		PageSize: driven.PageSize,
	})
	if err != nil {
		c.noteRateLimit(err)
		return nil, errors.Mark(errors.Wrap(WithHint(WrapError(err)), "query database"), domain.ErrSourceUnavailable)
	}

	if resp.HasMore {
		c.log.Warnw("more unprocessed records than one page; the rest wait for the next run",
			"page_size", driven.PageSize)
	}

	records := make([]domain.Record, 0, len(resp.Results))
	for _, page := range resp.Results {
		records = append(records, toRecord(page))
	}
	c.log.Debugw("queried database", logger.FieldCount, len(records), "has_more", resp.HasMore)
	return records, nil
}

// ListBlocks returns the first page of a page's child blocks.
func (c *Client) ListBlocks(ctx context.Context, recordID string) ([]domain.Block, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	resp, err := c.api.Block.GetChildren(ctx, notionapi.BlockID(recordID), &notionapi.Pagination{PageSize: driven.PageSize})
	if err != nil {
		c.noteRateLimit(err)
		return nil, errors.Wrapf(WrapError(err), "list blocks of %s", recordID)
	}

	blocks := make([]domain.Block, 0, len(resp.Results))
	for _, b := range resp.Results {
		blocks = append(blocks, toBlock(b))
	}
	return blocks, nil
}

// MarkProcessed checks the status checkbox of a page.
func (c *Client) MarkProcessed(ctx context.Context, recordID string) domain.Delivery {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.NotDelivered(err.Error())
	}

	c.log.Infow("marking processed", logger.FieldItemID, recordID)
	_, err := c.api.Page.Update(ctx, notionapi.PageID(recordID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			c.cfg.StatusProperty: notionapi.CheckboxProperty{Checkbox: true},
		},
	})
	if err != nil {
		c.noteRateLimit(err)
		err = WrapError(err)
		c.log.Errorw("mark processed failed", logger.FieldItemID, recordID, logger.FieldError, err)
		return domain.NotDelivered(err.Error())
	}
	return domain.Delivered()
}

// Ping verifies the token and that the database is shared with it.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Me(ctx); err != nil {
		return err
	}
	_, err := c.DatabaseTitle(ctx)
	return err
}

// Me returns the name of the bot user behind the token.
func (c *Client) Me(ctx context.Context) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limiter")
	}
	user, err := c.api.User.Me(ctx)
	if err != nil {
		return "", errors.Wrap(WithHint(WrapError(err)), "fetch bot user")
	}
	return user.Name, nil
}

// DatabaseTitle returns the plain-text title of the configured database.
func (c *Client) DatabaseTitle(ctx context.Context) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limiter")
	}
	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(c.cfg.DatabaseID))
	if err != nil {
		c.noteRateLimit(err)
		return "", errors.Wrap(WithHint(WrapError(err)), "fetch database")
	}
	return strings.Join(plainTexts(db.Title), ""), nil
}

func (c *Client) noteRateLimit(err error) {
	if IsRateLimited(err) {
		c.rateLimiter.RecordRateLimitError(0)
	}
}
