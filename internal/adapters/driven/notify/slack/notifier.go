// Package slack delivers processing outcomes to a Slack incoming webhook
// as Block Kit messages.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

const (
	// DefaultTimeout bounds each webhook POST.
	DefaultTimeout = 30 * time.Second

	// DefaultFooter is shown under every success message.
	DefaultFooter = "🤖 _Processed automatically_"

	// webhookOK is the body Slack returns for an accepted message.
	webhookOK = "ok"

	// maxErrorBody caps how much of a rejection body ends up in a reason.
	maxErrorBody = 200
)

// Config holds the webhook settings.
type Config struct {
	// WebhookURL is the incoming webhook (required).
	WebhookURL string

	// Channel optionally overrides the webhook's default channel.
	Channel string

	// Footer replaces DefaultFooter.
	Footer string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// Format rewrites the generated result before posting. Optional.
	Format driven.TextProcessor
}

// Notifier posts success and failure messages to Slack.
type Notifier struct {
	webhookURL string
	channel    string
	footer     string
	format     driven.TextProcessor
	client     *http.Client
	log        *zap.SugaredLogger
}

// NewNotifier creates a Slack notifier.
func NewNotifier(cfg Config, log *zap.SugaredLogger) (*Notifier, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.WithHint(
			errors.Mark(errors.New("slack: webhook URL is required"), domain.ErrConfiguration),
			"set SLACK_WEBHOOK_URL to an incoming webhook URL")
	}
	if cfg.Footer == "" {
		cfg.Footer = DefaultFooter
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = logger.Named("slack")
	}
	return &Notifier{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		footer:     cfg.Footer,
		format:     cfg.Format,
		client:     cfg.HTTPClient,
		log:        log,
	}, nil
}

// NotifySuccess posts the generated result for one item.
// A formatting error is logged and the raw result is posted instead.
func (n *Notifier) NotifySuccess(ctx context.Context, notice driven.SuccessNotice) domain.Delivery {
	if n.format != nil {
		formatted, err := n.format.Process(ctx, notice.Result)
		if err != nil {
			n.log.Warnw("formatting failed, posting raw result", logger.FieldError, err)
		} else {
			notice.Result = formatted
		}
	}
	msg := SuccessMessage(notice, n.footer)
	return n.deliver(ctx, msg)
}

// NotifyFailure posts an error report for one item.
func (n *Notifier) NotifyFailure(ctx context.Context, notice driven.FailureNotice) domain.Delivery {
	msg := FailureMessage(notice)
	return n.deliver(ctx, msg)
}

func (n *Notifier) deliver(ctx context.Context, msg *slack.WebhookMessage) domain.Delivery {
	msg.Channel = n.channel
	if err := n.post(ctx, msg); err != nil {
		n.log.Errorw("slack delivery failed", logger.FieldError, err)
		return domain.NotDelivered(err.Error())
	}
	n.log.Debugw("slack message delivered")
	return domain.Delivered()
}

// post sends msg and requires Slack's literal "ok" acknowledgement.
func (n *Notifier) post(ctx context.Context, msg *slack.WebhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "slack: send")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "slack: read response (status %d)", resp.StatusCode)
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf("slack: status %d: %s", resp.StatusCode, truncateRunes(text, maxErrorBody))
	}
	if text != webhookOK {
		return errors.Newf("slack: unexpected response %q", truncateRunes(text, maxErrorBody))
	}
	return nil
}
