package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/geo"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph/nodes"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph/observers"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/search"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

// Runner executes one compiled graph run for a thread turn.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*schema.Message, error)
}

// Config holds everything needed to compose the conversation graphs
// end-to-end. This is a convenience layer over GraphConfig that also
// constructs the chat models.
type Config struct {
	APIKey          string
	BaseURL         string
	ExtractionModel model.ExtractionModelConfig
	ResponseModel   model.ResponseModelConfig
	Conversation    model.ConversationConfig
	Search          model.SearchConfig
	Searcher        search.DocumentSearcher
	Locations       geo.LocationService
	Router          *router.SemanticRouter
}

// GraphConfig holds all configuration needed to build the graphs.
type GraphConfig struct {
	ChatModels   *nodes.ChatModels
	Conversation model.ConversationConfig
	Search       model.SearchConfig
	Searcher     search.DocumentSearcher
	Locations    geo.LocationService
	Router       *router.SemanticRouter
}

// Graphs bundles the two compiled entry points: Turn for a fresh user
// message, Resume for re-entering after human feedback.
type Graphs struct {
	Turn   Runner
	Resume Runner
}

// GraphBuilder handles the construction of the conversation turn graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (*schema.Message, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// BuildChatGraphs composes the chat models, builds both graphs and returns
// their runners.
func BuildChatGraphs(ctx context.Context, cfg Config) (*Graphs, error) {
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("document searcher is nil")
	}
	if cfg.Locations == nil {
		return nil, fmt.Errorf("location service is nil")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("semantic router is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ExtractionConfig: &cfg.ExtractionModel,
		RespConfig:       &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	gc := &GraphConfig{
		ChatModels:   cms,
		Conversation: cfg.Conversation,
		Search:       cfg.Search,
		Searcher:     cfg.Searcher,
		Locations:    cfg.Locations,
		Router:       cfg.Router,
	}

	turn, err := BuildTurnGraph(ctx, gc)
	if err != nil {
		return nil, err
	}
	resume, err := BuildResumeGraph(ctx, gc)
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("conversation graphs built successfully")
	return &Graphs{
		Turn:   &graphRunner{runnable: turn},
		Resume: &graphRunner{runnable: resume},
	}, nil
}

// BuildTurnGraph constructs and compiles the full turn graph.
func BuildTurnGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Extraction == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph:  newStateGraph(),
	}

	builder.addNodes()
	builder.addEdges()
	if err := builder.addBranches(); err != nil {
		return nil, err
	}
	return builder.compile(ctx)
}

// BuildResumeGraph constructs the short graph used after human feedback: it
// skips retrieval, routing and classification and goes straight to the
// response, keeping the summarization gate.
func BuildResumeGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}

	g := newStateGraph()

	g.AddLambdaNode(nodes.NodeResumePrepare,
		nodes.NewResumePrepareNode(),
		compose.WithStatePreHandler(nodes.NewResumePreparePreHandler()),
	)
	g.AddLambdaNode(nodes.NodeGenerateResponse,
		nodes.NewGenerateResponseNode(config.ChatModels.Response, config.Conversation),
		compose.WithStatePostHandler(nodes.NewGenerateResponsePostHandler()),
	)
	g.AddLambdaNode(nodes.NodeSummarize,
		nodes.NewSummarizeNode(config.ChatModels.Response, config.Conversation),
	)

	g.AddEdge(compose.START, nodes.NodeResumePrepare)
	g.AddEdge(nodes.NodeResumePrepare, nodes.NodeGenerateResponse)
	g.AddEdge(nodes.NodeSummarize, compose.END)

	summarizeBranch := compose.NewGraphBranch(
		nodes.NewSummarizeCondition(config.Conversation),
		map[string]bool{
			nodes.NodeSummarize: true,
			compose.END:         true,
		},
	)
	if err := g.AddBranch(nodes.NodeGenerateResponse, summarizeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding summarize branch to resume graph")
		return nil, fmt.Errorf("error adding summarize branch: %w", err)
	}

	return g.Compile(ctx, compose.WithMaxRunSteps(10))
}

func newStateGraph() *compose.Graph[model.TurnInput, *schema.Message] {
	return compose.NewGraph[model.TurnInput, *schema.Message](
		compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
			return &model.AppState{}
		}),
	)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodePrepareTurn,
		nodes.NewPrepareTurnNode(b.config.Searcher, b.config.ChatModels.Extraction, b.config.Conversation, b.config.Search),
		compose.WithStatePreHandler(nodes.NewPrepareTurnPreHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeSemanticRouter,
		nodes.NewSemanticRouterNode(b.config.Router),
		compose.WithStatePostHandler(nodes.NewSemanticRouterPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeAmbiguityClassifier,
		nodes.NewAmbiguityClassifierNode(b.config.ChatModels.Extraction, b.config.Conversation),
		compose.WithStatePostHandler(nodes.NewAmbiguityClassifierPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeAskClarification,
		nodes.NewAskClarificationNode(),
		compose.WithStatePostHandler(nodes.NewAskClarificationPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeHandleLocation,
		nodes.NewHandleLocationNode(b.config.Locations, b.config.ChatModels.Response, b.config.Conversation),
		compose.WithStatePostHandler(nodes.NewHandleLocationPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeGenerateResponse,
		nodes.NewGenerateResponseNode(b.config.ChatModels.Response, b.config.Conversation),
		compose.WithStatePostHandler(nodes.NewGenerateResponsePostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeSummarize,
		nodes.NewSummarizeNode(b.config.ChatModels.Response, b.config.Conversation),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodePrepareTurn},
		{nodes.NodePrepareTurn, nodes.NodeSemanticRouter},
		{nodes.NodeAskClarification, compose.END},
		{nodes.NodeHandleLocation, compose.END},
		{nodes.NodeSummarize, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	topicBranch := compose.NewGraphBranch(
		nodes.NewTopicCondition(),
		map[string]bool{
			nodes.NodeHandleLocation:      true,
			nodes.NodeAmbiguityClassifier: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeSemanticRouter, topicBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding topic branch")
		return fmt.Errorf("error adding topic branch: %w", err)
	}

	ambiguityBranch := compose.NewGraphBranch(
		nodes.NewAmbiguityCondition(),
		map[string]bool{
			nodes.NodeAskClarification: true,
			nodes.NodeGenerateResponse: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeAmbiguityClassifier, ambiguityBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding ambiguity branch")
		return fmt.Errorf("error adding ambiguity branch: %w", err)
	}

	summarizeBranch := compose.NewGraphBranch(
		nodes.NewSummarizeCondition(b.config.Conversation),
		map[string]bool{
			nodes.NodeSummarize: true,
			compose.END:         true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeGenerateResponse, summarizeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding summarize branch")
		return fmt.Errorf("error adding summarize branch: %w", err)
	}

	return nil
}

// compile compiles the graph into a runnable
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}
	return runnable, nil
}
