package slack

import (
	"github.com/slack-go/slack"

	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
)

// Truncation limits, counted in runes.
const (
	MaxOriginalLength = 300
	MaxSectionLength  = 3000
	MaxFallbackLength = 500
)

const ellipsis = "..."

// SuccessMessage builds the Block Kit message for a generated result.
// The original text is carried as a quoted attachment when present.
func SuccessMessage(notice driven.SuccessNotice, footer string) *slack.WebhookMessage {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "📝 "+notice.Title, true, false)),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateRunes(notice.Result, MaxSectionLength), false, false),
			nil, nil),
	}
	if notice.Link != "" {
		blocks = append(blocks, linkButton("open_record", "📄 Open in Notion", notice.Link))
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, footer, false, false)))

	msg := &slack.WebhookMessage{
		Text:   "📝 " + notice.Title + "\n\n" + truncateRunes(notice.Result, MaxFallbackLength) + ellipsis,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
	if original := TruncateOriginal(notice.Original); original != "" {
		msg.Attachments = []slack.Attachment{{
			Fallback: original,
			Title:    "Original",
			Text:     original,
		}}
	}
	return msg
}

// FailureMessage builds the Block Kit message for a failed item.
func FailureMessage(notice driven.FailureNotice) *slack.WebhookMessage {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "⚠️ Processing error", true, false)),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				"*Target:* "+notice.Title+"\n*Error:* "+truncateRunes(notice.Reason, MaxSectionLength), false, false),
			nil, nil),
	}
	if notice.Link != "" {
		blocks = append(blocks, linkButton("inspect_record", "📄 Check in Notion", notice.Link))
	}

	return &slack.WebhookMessage{
		Text:   "⚠️ Processing error: " + notice.Title + " - " + notice.Reason,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

// TruncateOriginal caps the original text at MaxOriginalLength runes,
// appending "..." only when something was cut.
func TruncateOriginal(s string) string {
	if len([]rune(s)) <= MaxOriginalLength {
		return s
	}
	return truncateRunes(s, MaxOriginalLength) + ellipsis
}

func linkButton(actionID, label, url string) *slack.ActionBlock {
	button := slack.NewButtonBlockElement(actionID, "", slack.NewTextBlockObject(slack.PlainTextType, label, true, false)).
		WithURL(url)
	return slack.NewActionBlock("", button)
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
