package helpers

import (
	"context"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
	likeEscaper  = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// PlainText drops any markup from user input, entities are kept as plain characters.
func PlainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(value)))
}

// MarkdownToHTML renders markdown and sanitizes the resulting html.
func MarkdownToHTML(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return string(ugcPolicy.SanitizeBytes(blackfriday.Run([]byte(value))))
}

// EscapeLike escapes LIKE wildcards, use together with ESCAPE '\'.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// LikePattern builds a lowercase "contains" pattern.
func LikePattern(value string) string {
	return "%" + EscapeLike(strings.ToLower(strings.TrimSpace(value))) + "%"
}
