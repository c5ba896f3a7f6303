package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/embed"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	errx "github.com/DarkCodePE/agent-auto-nort/internal/core/error"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

const maxErrorBodyBytes = 1024

// QdrantSearcher queries a Qdrant collection over its REST API, embedding
// the query text with the shared embedder first.
type QdrantSearcher struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	collection string
	embedder   embed.Embedder
}

func NewQdrantSearcher(cfg model.SearchConfig, embedder embed.Embedder) (*QdrantSearcher, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	return &QdrantSearcher{
		http:       &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		embedder:   embedder,
	}, nil
}

type qdrantEnvelope struct {
	Result []qdrantPoint   `json:"result"`
	Status json.RawMessage `json:"status"`
}

type qdrantPoint struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

func (s *QdrantSearcher) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errx.WrapSearch(fmt.Errorf("embed query: %w", err))
	}

	body, err := json.Marshal(map[string]any{
		"vector":       vec,
		"limit":        limit,
		"with_payload": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errx.WrapSearch(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		logx.Error().
			Int("status", resp.StatusCode).
			Str("collection", s.collection).
			Str("body", string(snippet)).
			Msg("qdrant search returned non-200")
		return nil, errx.WrapSearch(fmt.Errorf("qdrant search status %d", resp.StatusCode))
	}

	var envelope qdrantEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errx.WrapSearch(fmt.Errorf("decode search response: %w", err))
	}

	results := make([]Result, 0, len(envelope.Result))
	for _, point := range envelope.Result {
		content, _ := point.Payload["content"].(string)
		results = append(results, Result{
			ID:       strings.Trim(string(point.ID), `"`),
			Content:  content,
			Score:    point.Score,
			Metadata: point.Payload,
		})
	}

	logx.Debug().Int("hits", len(results)).Str("collection", s.collection).Msg("document search completed")
	return results, nil
}

var _ DocumentSearcher = (*QdrantSearcher)(nil)
