package nodes

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/geo"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph/parsers"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph/prompts"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/search"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

// Node names used across the graph definition.
const (
	NodePrepareTurn         = "prepare_turn"
	NodeSemanticRouter      = "semantic_router"
	NodeAmbiguityClassifier = "ambiguity_classifier"
	NodeAskClarification    = "ask_clarification"
	NodeHandleLocation      = "handle_location"
	NodeGenerateResponse    = "generate_response"
	NodeSummarize           = "summarize_conversation"
	NodeResumePrepare       = "resume_prepare"
)

// clarificationPrefix precedes every clarification question sent to the user.
const clarificationPrefix = "Para ayudarte mejor, necesito más información. "

// fallbackAnswer is returned when the response model call fails. The error is
// logged, never shown.
const fallbackAnswer = "Lo siento, tuve un problema al procesar tu consulta. ¿Podrías intentarlo de nuevo?"

// askLocationAnswer is used on the location path when no location is known.
const askLocationAnswer = "¡Claro! Para recomendarte la planta más cercana, ¿me dices en qué distrito te encuentras? 😊"

// topPlantsShown caps how many ranked plants reach the user.
const topPlantsShown = 3

// NewPrepareTurnPreHandler hydrates the graph local state from the turn input
// and resets the per-turn fields.
func NewPrepareTurnPreHandler() func(context.Context, model.TurnInput, *model.AppState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.AppState) (model.TurnInput, error) {
		if in.Snapshot != nil {
			s.Conv = in.Snapshot
		} else {
			s.Conv = model.NewConversationState(in.ThreadID)
		}
		s.Conv.Input = in.Query
		s.Conv.Answer = ""
		s.Conv.Context = ""
		s.Conv.Ambiguity = model.AmbiguityClassification{}
		return in, nil
	}
}

// NewPrepareTurnNode runs document retrieval and fact extraction for the turn
// in parallel and folds both results into the state. Retrieval failure fails
// the turn; extraction failure only loses this turn's facts.
func NewPrepareTurnNode(
	searcher search.DocumentSearcher,
	extractionModel einomodel.BaseChatModel,
	convCfg model.ConversationConfig,
	searchCfg model.SearchConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (model.TurnInput, error) {
		var transcript string
		var previousQuestions []string
		err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			transcript = renderMessages(s.Conv.RecentMessages(convCfg.ExtractionWindow))
			previousQuestions = append(previousQuestions, s.Conv.PreviousQuestions...)
			return nil
		})
		if err != nil {
			return in, err
		}

		var contextText string
		var info model.VehicleInfo

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			results, err := searcher.Search(gctx, in.Query, searchCfg.Limit)
			if err != nil {
				return fmt.Errorf("document search: %w", err)
			}
			contextText = search.BuildContext(results)
			return nil
		})
		g.Go(func() error {
			systemPrompt, err := prompts.RenderExtraction(gctx, in.Query, transcript, joinOrNone(previousQuestions))
			if err != nil {
				return fmt.Errorf("render extraction prompt: %w", err)
			}
			out, err := extractionModel.Generate(gctx, []*schema.Message{
				schema.SystemMessage(systemPrompt),
				schema.UserMessage(in.Query),
			})
			if err != nil {
				logx.Warn().Err(err).Str("thread_id", in.ThreadID).Msg("fact extraction call failed, keeping previous facts")
				return nil
			}
			parsed, err := parsers.ParseVehicleInfo(out.Content)
			if err != nil {
				logx.Warn().Err(err).Str("thread_id", in.ThreadID).Msg("fact extraction output unparseable, keeping previous facts")
				return nil
			}
			info = parsed
			return nil
		})
		if err := g.Wait(); err != nil {
			return in, err
		}

		err = compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			s.Conv.Context = contextText
			s.Conv.MergeVehicleInfo(info)
			return nil
		})
		return in, err
	})
}

// NewSemanticRouterNode routes the query to a topic via embedding similarity.
func NewSemanticRouterNode(r *router.SemanticRouter) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (string, error) {
		return r.Route(ctx, in.Query), nil
	})
}

// NewSemanticRouterPostHandler records the routed topic on the state.
func NewSemanticRouterPostHandler() func(context.Context, string, *model.AppState) (string, error) {
	return func(ctx context.Context, topic string, s *model.AppState) (string, error) {
		s.Conv.CurrentTopic = topic
		return topic, nil
	}
}

// NewTopicCondition routes location questions straight to the plant handler;
// everything else goes through the ambiguity classifier.
func NewTopicCondition() func(context.Context, string) (string, error) {
	return func(ctx context.Context, topic string) (string, error) {
		if topic == router.TopicLocation {
			return NodeHandleLocation, nil
		}
		return NodeAmbiguityClassifier, nil
	}
}

// NewAmbiguityClassifierNode asks the extraction model whether the turn needs
// clarification before answering. A failed or unparseable verdict degrades to
// not ambiguous so the turn still gets an answer.
func NewAmbiguityClassifierNode(extractionModel einomodel.BaseChatModel, convCfg model.ConversationConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, topic string) (model.AmbiguityClassification, error) {
		notAmbiguous := model.AmbiguityClassification{AmbiguityCategory: model.CategoryNone}

		var vars prompts.AmbiguityVars
		var query string
		err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			query = s.Conv.Input
			vars = prompts.AmbiguityVars{
				UserQuery:          s.Conv.Input,
				RetrievedContext:   s.Conv.Context,
				PreviousQuestions:  joinOrNone(s.Conv.PreviousQuestions),
				PreviousCategories: joinOrNone(s.Conv.PreviousCategories),
				VehicleType:        factOrNone(s.Conv.VehicleType),
				Location:           factOrNone(s.Conv.Location),
				PlantLocation:      factOrNone(s.Conv.PlantLocation),
				Model:              factOrNone(s.Conv.Model),
				Annual:             factOrNone(s.Conv.Annual),
				RecentMessages:     renderMessages(s.Conv.RecentMessages(convCfg.ExtractionWindow)),
			}
			return nil
		})
		if err != nil {
			return notAmbiguous, err
		}

		systemPrompt, err := prompts.RenderAmbiguity(ctx, topic, vars)
		if err != nil {
			return notAmbiguous, fmt.Errorf("render ambiguity prompt: %w", err)
		}
		out, err := extractionModel.Generate(ctx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(query),
		})
		if err != nil {
			logx.Warn().Err(err).Msg("ambiguity classifier call failed, answering without clarification")
			return notAmbiguous, nil
		}
		result, err := parsers.ParseAmbiguity(out.Content)
		if err != nil {
			logx.Warn().Err(err).Msg("ambiguity verdict unparseable, answering without clarification")
			return notAmbiguous, nil
		}
		return result, nil
	})
}

// NewAmbiguityClassifierPostHandler records the verdict on the state.
func NewAmbiguityClassifierPostHandler() func(context.Context, model.AmbiguityClassification, *model.AppState) (model.AmbiguityClassification, error) {
	return func(ctx context.Context, out model.AmbiguityClassification, s *model.AppState) (model.AmbiguityClassification, error) {
		s.Conv.Ambiguity = out
		return out, nil
	}
}

// NewAmbiguityCondition sends ambiguous turns to the clarification node.
// The verdict alone decides; the question text is the classifier's problem.
func NewAmbiguityCondition() func(context.Context, model.AmbiguityClassification) (string, error) {
	return func(ctx context.Context, c model.AmbiguityClassification) (string, error) {
		if c.IsAmbiguous {
			return NodeAskClarification, nil
		}
		return NodeGenerateResponse, nil
	}
}

// NewAskClarificationNode turns the classifier's question into the answer for
// this turn.
func NewAskClarificationNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, c model.AmbiguityClassification) (*schema.Message, error) {
		return schema.AssistantMessage(clarificationPrefix+c.ClarificationQuestion, nil), nil
	})
}

// NewAskClarificationPostHandler records the asked question so it is never
// repeated, and appends the exchange to the history.
func NewAskClarificationPostHandler() func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.AppState) (*schema.Message, error) {
		s.Conv.AppendClarification(s.Conv.Ambiguity.ClarificationQuestion, s.Conv.Ambiguity.AmbiguityCategory)
		s.Conv.Answer = out.Content
		s.Conv.Messages = append(s.Conv.Messages, schema.UserMessage(s.Conv.Input), out)
		return out, nil
	}
}

// NewHandleLocationNode resolves the user's location, ranks the plants by
// driving distance and phrases the recommendation. Without a known or
// extractable location it asks for the district instead.
func NewHandleLocationNode(
	locations geo.LocationService,
	responseModel einomodel.BaseChatModel,
	convCfg model.ConversationConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, topic string) (*schema.Message, error) {
		var query, place, vehicleType, transcript string
		err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			query = s.Conv.Input
			if s.Conv.Location != nil {
				place = *s.Conv.Location
			}
			vehicleType = factOrNone(s.Conv.VehicleType)
			transcript = renderMessages(s.Conv.RecentMessages(convCfg.ExtractionWindow))
			return nil
		})
		if err != nil {
			return nil, err
		}

		if place == "" {
			place = geo.ExtractLocationFromMessage(query)
		}
		if place == "" {
			err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
				s.Conv.AppendClarification(askLocationAnswer, model.CategoryPlantLocation)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return schema.AssistantMessage(askLocationAnswer, nil), nil
		}

		lng, lat := locations.Geocode(ctx, place)
		ranked := locations.RouteDistances(ctx, lng, lat, model.Plants())
		plantList := formatPlantList(ranked, topPlantsShown)

		err = compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			if s.Conv.Location == nil {
				s.Conv.Location = &place
			}
			s.Conv.NearestPlants = ranked
			return nil
		})
		if err != nil {
			return nil, err
		}

		systemPrompt, err := prompts.RenderLocation(ctx, prompts.LocationVars{
			UserQuery:      query,
			Location:       place,
			VehicleType:    vehicleType,
			NearestPlants:  plantList,
			RecentMessages: transcript,
		})
		if err != nil {
			return nil, fmt.Errorf("render location prompt: %w", err)
		}
		out, err := responseModel.Generate(ctx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(query),
		})
		if err != nil {
			logx.Error().Err(err).Str("place", place).Msg("location response call failed, using plain listing")
			answer := fmt.Sprintf("Estas son las plantas más cercanas a %s:\n\n%s", place, plantList)
			return schema.AssistantMessage(answer, nil), nil
		}
		return out, nil
	})
}

// NewHandleLocationPostHandler appends the exchange and closes the turn.
func NewHandleLocationPostHandler() func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.AppState) (*schema.Message, error) {
		s.Conv.Answer = out.Content
		s.Conv.Messages = append(s.Conv.Messages, schema.UserMessage(s.Conv.Input), out)
		return out, nil
	}
}

// NewGenerateResponseNode produces the persona answer from the retrieved
// context, the conversation history and the known facts. Model failure is
// logged and replaced with a fixed apology, never surfaced.
func NewGenerateResponseNode(responseModel einomodel.BaseChatModel, convCfg model.ConversationConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, c model.AmbiguityClassification) (*schema.Message, error) {
		var query, contextText, chatHistory, vehicleInfo string
		var window []*schema.Message
		err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			query = s.Conv.Input
			contextText = s.Conv.Context
			vehicleInfo = formatVehicleInfo(s.Conv)
			window = s.Conv.RecentMessages(convCfg.ResponseWindow)
			if s.Conv.Summary != "" {
				chatHistory = "Resumen de la conversación: " + s.Conv.Summary + "\n\n" + renderMessages(window)
			} else {
				chatHistory = renderMessages(window)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		systemPrompt, err := prompts.RenderResponseSystem(ctx, contextText, chatHistory, vehicleInfo)
		if err != nil {
			return nil, fmt.Errorf("render response prompt: %w", err)
		}

		messages := make([]*schema.Message, 0, len(window)+2)
		messages = append(messages, schema.SystemMessage(systemPrompt))
		messages = append(messages, window...)
		messages = append(messages, schema.UserMessage(query))

		out, err := responseModel.Generate(ctx, messages)
		if err != nil {
			logx.Error().Err(err).Msg("response model call failed, using fallback answer")
			return schema.AssistantMessage(fallbackAnswer, nil), nil
		}
		return out, nil
	})
}

// NewGenerateResponsePostHandler appends the exchange and closes the turn.
func NewGenerateResponsePostHandler() func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.AppState) (*schema.Message, error) {
		s.Conv.Answer = out.Content
		s.Conv.Messages = append(s.Conv.Messages, schema.UserMessage(s.Conv.Input), out)
		return out, nil
	}
}

// NewSummarizeCondition compacts the history once it grows past the
// configured threshold.
func NewSummarizeCondition(convCfg model.ConversationConfig) func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, out *schema.Message) (string, error) {
		summarize := false
		err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			summarize = s.Conv.ShouldSummarize(convCfg.SummarizeAfter)
			return nil
		})
		if err != nil {
			return "", err
		}
		if summarize {
			return NodeSummarize, nil
		}
		return compose.END, nil
	}
}

// NewSummarizeNode folds older messages into the rolling summary and keeps
// only the most recent ones. Summarization failure is logged and skipped; the
// turn's answer passes through untouched either way.
func NewSummarizeNode(responseModel einomodel.BaseChatModel, convCfg model.ConversationConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, answer *schema.Message) (*schema.Message, error) {
		var history []*schema.Message
		var summary string
		err := compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			history = append(history, s.Conv.Messages...)
			summary = s.Conv.Summary
			return nil
		})
		if err != nil {
			return answer, err
		}

		messages := make([]*schema.Message, 0, len(history)+1)
		messages = append(messages, history...)
		messages = append(messages, schema.UserMessage(prompts.SummaryInstruction(summary)))

		out, err := responseModel.Generate(ctx, messages)
		if err != nil {
			logx.Warn().Err(err).Msg("summarization call failed, keeping full history")
			return answer, nil
		}

		err = compose.ProcessState[*model.AppState](ctx, func(_ context.Context, s *model.AppState) error {
			s.Conv.Summary = out.Content
			if keep := convCfg.KeepLastMessages; len(s.Conv.Messages) > keep {
				s.Conv.Messages = append([]*schema.Message{}, s.Conv.Messages[len(s.Conv.Messages)-keep:]...)
			}
			return nil
		})
		return answer, err
	})
}

// NewResumePrepareNode re-enters the graph after human feedback: it hydrates
// the state and hands a clean verdict to the response node.
func NewResumePrepareNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (model.AmbiguityClassification, error) {
		return model.AmbiguityClassification{AmbiguityCategory: model.CategoryNone}, nil
	})
}

// NewResumePreparePreHandler hydrates the graph local state for a resumed
// turn.
func NewResumePreparePreHandler() func(context.Context, model.TurnInput, *model.AppState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.AppState) (model.TurnInput, error) {
		if in.Snapshot != nil {
			s.Conv = in.Snapshot
		} else {
			s.Conv = model.NewConversationState(in.ThreadID)
		}
		s.Conv.Input = in.Query
		s.Conv.Answer = ""
		s.Conv.Ambiguity = model.AmbiguityClassification{}
		return in, nil
	}
}
