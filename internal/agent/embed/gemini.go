package embed

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

// taskTypeSemanticSimilarity optimizes vectors for similarity comparison,
// which is what the semantic router does with them.
const taskTypeSemanticSimilarity = "SEMANTIC_SIMILARITY"

// GeminiEmbedder computes embeddings with the Gemini embeddings API, sharing
// the same genai client as the chat models.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int32
}

func NewGeminiEmbedder(client *genai.Client, cfg model.RouterConfig) (*GeminiEmbedder, error) {
	if client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}
	return &GeminiEmbedder{
		client:     client,
		model:      cfg.EmbeddingModel,
		dimensions: int32(cfg.Dimensions),
	}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	content := genai.NewContentFromText(text, genai.RoleUser)
	req := &genai.EmbedContentConfig{
		TaskType: taskTypeSemanticSimilarity,
	}
	if e.dimensions > 0 {
		d := e.dimensions
		req.OutputDimensionality = &d
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, []*genai.Content{content}, req)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		logx.Warn().Str("model", e.model).Msg("received empty embedding response")
		return []float64{}, nil
	}

	vec := make([]float64, len(resp.Embeddings[0].Values))
	for i, v := range resp.Embeddings[0].Values {
		vec[i] = float64(v)
	}
	return vec, nil
}

var _ Embedder = (*GeminiEmbedder)(nil)
