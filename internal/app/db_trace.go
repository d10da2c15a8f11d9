package app

import (
	"regexp"
	"strings"
)

// Bulk line/prop inserts stay readable up to roughly a dozen rows.
const maxTracedQueryLength = 1024

var (
	queryLiteralRegex    = regexp.MustCompile(`'(?:[^']|'')*'`)
	queryCommentRegex    = regexp.MustCompile(`--[^\n]*`)
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
)

// formatDBQueryForTrace masks string literals (team and player names) and
// drops line comments before flattening the statement onto one line.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	masked := queryLiteralRegex.ReplaceAllString(query, "'?'")
	masked = queryCommentRegex.ReplaceAllString(masked, " ")
	normalized := strings.TrimSpace(queryWhitespaceRegex.ReplaceAllString(masked, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
