package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeEmbedder maps known phrases to fixed vectors so routing is
// deterministic.
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float64{0, 0, 1}, nil
}

func newFakeEmbedder() *fakeEmbedder {
	vectors := map[string][]float64{}
	axes := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 0},
	}
	for i, set := range exampleSets {
		for _, example := range set.examples {
			vectors[example] = axes[i%len(axes)]
		}
	}
	return &fakeEmbedder{vectors: vectors}
}

func TestRoutePicksMostSimilarTopic(t *testing.T) {
	fe := newFakeEmbedder()
	fe.vectors["¿Dónde queda la planta?"] = []float64{0, 0, 1}

	r := New(context.Background(), fe)
	assert.Equal(t, TopicLocation, r.Route(context.Background(), "¿Dónde queda la planta?"))
}

func TestRouteTieBreaksByDeclarationOrder(t *testing.T) {
	// every example of every topic gets the same vector, so all sets tie
	fe := &fakeEmbedder{vectors: map[string][]float64{}}
	for _, set := range exampleSets {
		for _, example := range set.examples {
			fe.vectors[example] = []float64{1, 0, 0}
		}
	}
	fe.vectors["hola"] = []float64{1, 0, 0}

	r := New(context.Background(), fe)
	assert.Equal(t, TopicWelcome, r.Route(context.Background(), "hola"))
}

func TestRouteFallsBackOnEmbedError(t *testing.T) {
	r := New(context.Background(), newFakeEmbedder())
	r.embedder = &fakeEmbedder{err: fmt.Errorf("quota exceeded")}

	assert.Equal(t, DefaultTopic, r.Route(context.Background(), "¿Cuánto cuesta?"))
}

func TestRouteFallsBackWithoutCachedExamples(t *testing.T) {
	fe := newFakeEmbedder()
	r := &SemanticRouter{embedder: fe}

	assert.Equal(t, DefaultTopic, r.Route(context.Background(), "hola"))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{1, 2}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, cosine([]float64{1}, []float64{1, 2}))
	assert.Zero(t, cosine([]float64{0, 0}, []float64{1, 2}))
}
