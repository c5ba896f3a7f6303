package router

import (
	"context"
	"math"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/embed"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

// DefaultTopic is returned whenever embeddings are unavailable so a turn
// never fails on router trouble.
const DefaultTopic = TopicRequirements

type cachedSet struct {
	topic   string
	vectors [][]float64
}

// SemanticRouter picks the topic whose example set contains the phrase most
// similar to the query. Example embeddings are computed once at construction.
type SemanticRouter struct {
	embedder embed.Embedder
	sets     []cachedSet
}

// New embeds every example phrase up front. Embedding failures during warmup
// are logged and leave the affected set empty; routing then degrades to the
// default topic instead of failing the turn.
func New(ctx context.Context, embedder embed.Embedder) *SemanticRouter {
	r := &SemanticRouter{embedder: embedder}
	for _, set := range exampleSets {
		cached := cachedSet{topic: set.topic}
		for _, example := range set.examples {
			vec, err := embedder.Embed(ctx, example)
			if err != nil {
				logx.Error().Err(err).
					Str("topic", set.topic).
					Str("example", example).
					Msg("failed to embed router example")
				continue
			}
			cached.vectors = append(cached.vectors, vec)
		}
		r.sets = append(r.sets, cached)
	}
	return r
}

// Route returns the topic for the query. The decision takes the per-set
// maximum cosine similarity and picks the globally best set; ties keep the
// earlier set in declaration order (welcome > requirements > location >
// plant_tariff).
func (r *SemanticRouter) Route(ctx context.Context, query string) string {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil || len(queryVec) == 0 {
		logx.Warn().Err(err).Msg("router embedding failed, falling back to default topic")
		return DefaultTopic
	}

	best := math.Inf(-1)
	topic := ""
	for _, set := range r.sets {
		setMax := math.Inf(-1)
		for _, vec := range set.vectors {
			if sim := cosine(queryVec, vec); sim > setMax {
				setMax = sim
			}
		}
		if len(set.vectors) > 0 && setMax > best {
			best = setMax
			topic = set.topic
		}
	}
	if topic == "" {
		logx.Warn().Msg("router has no cached example embeddings, using default topic")
		return DefaultTopic
	}

	logx.Debug().Str("topic", topic).Float64("similarity", best).Msg("semantic route decided")
	return topic
}

// cosine returns the cosine similarity of two vectors, 0 when either has no
// magnitude or lengths differ.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
