package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is one retrieved document snippet.
type Result struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}

// DocumentSearcher finds the documents most relevant to a query.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

const contextSeparator = "\n\n---\n\n"

// BuildContext renders retrieval results into the context block fed to the
// prompts. Each document gets a numbered header using the metadata name when
// present. No results produce an empty string.
func BuildContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, res := range results {
		title := fmt.Sprintf("Document %d", i+1)
		if name, ok := res.Metadata["name"].(string); ok && strings.TrimSpace(name) != "" {
			title = name
		}
		parts = append(parts, fmt.Sprintf("Document %d: %s\n%s", i+1, title, res.Content))
	}
	return strings.Join(parts, contextSeparator)
}
