// Package mrkdwn rewrites Markdown produced by language models into
// Slack's mrkdwn dialect.
package mrkdwn

import (
	"context"
	"regexp"
	"strings"
)

// boldMark stands in for converted bold markers while italics are rewritten.
const boldMark = "\x00"

var (
	heading        = regexp.MustCompile(`^#{1,6}\s+(.+?)(?:\s+#+)?\s*$`)
	bullet         = regexp.MustCompile(`^(\s*)[-*+]\s+`)
	boldStars      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnder      = regexp.MustCompile(`__(.+?)__`)
	italicStar     = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	strike         = regexp.MustCompile(`~~(.+?)~~`)
	link           = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	horizontalRule = regexp.MustCompile(`^\s*([-*_])(\s*([-*_])){2,}\s*$`)
)

// Processor converts Markdown to Slack mrkdwn.
// Fenced code blocks pass through unchanged.
type Processor struct{}

// New creates a new mrkdwn processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "mrkdwn"
}

// Process rewrites text line by line.
func (p *Processor) Process(_ context.Context, text string) (string, error) {
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = convertLine(line)
	}
	return strings.Join(lines, "\n"), nil
}

func convertLine(line string) string {
	if horizontalRule.MatchString(line) {
		return "―――"
	}
	if m := heading.FindStringSubmatch(line); m != nil {
		title := strings.ReplaceAll(m[1], "**", "")
		return "*" + strings.Trim(title, "*") + "*"
	}

	line = bullet.ReplaceAllString(line, "$1• ")
	line = link.ReplaceAllString(line, "<$2|$1>")
	line = boldStars.ReplaceAllString(line, boldMark+"$1"+boldMark)
	line = boldUnder.ReplaceAllString(line, boldMark+"$1"+boldMark)
	line = italicStar.ReplaceAllString(line, "_${1}_")
	line = strike.ReplaceAllString(line, "~$1~")
	return strings.ReplaceAll(line, boldMark, "*")
}
