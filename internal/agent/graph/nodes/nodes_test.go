package nodes

import (
	"context"
	"fmt"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
)

func strPtr(s string) *string { return &s }

// stubChatModel answers every Generate call with a fixed reply.
type stubChatModel struct {
	reply string
	err   error
}

func (m *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported")
}

// summarizeRunnable compiles a one-node graph around the summarize node so it
// runs with real graph local state.
func summarizeRunnable(t *testing.T, cm einomodel.BaseChatModel, cfg model.ConversationConfig, state *model.ConversationState) compose.Runnable[*schema.Message, *schema.Message] {
	t.Helper()

	g := compose.NewGraph[*schema.Message, *schema.Message](
		compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
			return &model.AppState{}
		}),
	)
	g.AddLambdaNode(NodeSummarize,
		NewSummarizeNode(cm, cfg),
		compose.WithStatePreHandler(func(ctx context.Context, in *schema.Message, s *model.AppState) (*schema.Message, error) {
			s.Conv = state
			return in, nil
		}),
	)
	g.AddEdge(compose.START, NodeSummarize)
	g.AddEdge(NodeSummarize, compose.END)

	runnable, err := g.Compile(context.Background())
	require.NoError(t, err)
	return runnable
}

func TestSummarizeNodeCompactsHistory(t *testing.T) {
	state := model.NewConversationState("t1")
	for i := 0; i < 4; i++ {
		state.Messages = append(state.Messages,
			schema.UserMessage(fmt.Sprintf("pregunta %d", i)),
			schema.AssistantMessage(fmt.Sprintf("respuesta %d", i), nil),
		)
	}
	cfg := model.ConversationConfig{SummarizeAfter: 6, KeepLastMessages: 2}

	runnable := summarizeRunnable(t, &stubChatModel{reply: "resumen de lo conversado"}, cfg, state)

	answer := schema.AssistantMessage("respuesta 3", nil)
	out, err := runnable.Invoke(context.Background(), answer)
	require.NoError(t, err)
	assert.Equal(t, "respuesta 3", out.Content)

	assert.Equal(t, "resumen de lo conversado", state.Summary)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, "pregunta 3", state.Messages[0].Content)
	assert.Equal(t, "respuesta 3", state.Messages[1].Content)
}

func TestSummarizeNodeKeepsHistoryOnModelError(t *testing.T) {
	state := model.NewConversationState("t1")
	for i := 0; i < 8; i++ {
		state.Messages = append(state.Messages, schema.UserMessage("m"))
	}
	cfg := model.ConversationConfig{SummarizeAfter: 6, KeepLastMessages: 2}

	runnable := summarizeRunnable(t, &stubChatModel{err: assert.AnError}, cfg, state)

	out, err := runnable.Invoke(context.Background(), schema.AssistantMessage("respuesta", nil))
	require.NoError(t, err)
	assert.Equal(t, "respuesta", out.Content)

	assert.Empty(t, state.Summary)
	assert.Len(t, state.Messages, 8)
}

func TestFactOrNone(t *testing.T) {
	assert.Equal(t, "None", factOrNone(nil))
	assert.Equal(t, "None", factOrNone(strPtr("  ")))
	assert.Equal(t, "taxi", factOrNone(strPtr("taxi")))
}

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "None", joinOrNone(nil))
	assert.Equal(t, "a, b", joinOrNone([]string{"a", "b"}))
}

func TestRenderMessages(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("Hola"),
		schema.AssistantMessage("¡Hola! ¿En qué te ayudo?", nil),
		nil,
		schema.UserMessage(""),
	}

	got := renderMessages(msgs)
	assert.Equal(t, "human: Hola\nai: ¡Hola! ¿En qué te ayudo?", got)
	assert.Equal(t, "None", renderMessages(nil))
}

func TestFormatVehicleInfo(t *testing.T) {
	s := model.NewConversationState("t1")
	s.VehicleType = strPtr("taxi")
	s.Annual = strPtr("2018")

	got := formatVehicleInfo(s)
	assert.Contains(t, got, "tipo de vehículo: taxi")
	assert.Contains(t, got, "ubicación del usuario: None")
	assert.Contains(t, got, "año de fabricación: 2018")
}

func TestFormatPlantList(t *testing.T) {
	plants := []model.PlantDistance{
		{Name: "Planta SJL", Address: "Av. Próceres 123", Phone: "01-123", Hours: "L-S 8-18", DistanceText: "3.0 km", DurationText: "12 minutos"},
		{Name: "Planta Ate", Address: "Av. Nicolás Ayllón 456", Phone: "01-456", Hours: "L-S 8-18", DistanceText: "8.1 km", DurationText: "25 minutos"},
		{Name: "Planta Lurín", Address: "Antigua Panamericana Sur", Phone: "01-789", Hours: "L-S 8-18", DistanceText: "30.2 km", DurationText: "55 minutos"},
		{Name: "Planta Extra", Address: "x", Phone: "x", Hours: "x", DistanceText: "99 km", DurationText: "2 horas"},
	}

	got := formatPlantList(plants, 3)
	assert.Contains(t, got, "1. Planta SJL")
	assert.Contains(t, got, "3. Planta Lurín")
	assert.NotContains(t, got, "Planta Extra")
	assert.Equal(t, "None", formatPlantList(nil, 3))
}

func TestPrepareTurnPreHandlerHydratesSnapshot(t *testing.T) {
	snapshot := model.NewConversationState("t1")
	snapshot.Answer = "respuesta previa"
	snapshot.Context = "contexto previo"
	snapshot.Ambiguity = model.AmbiguityClassification{IsAmbiguous: true}

	s := &model.AppState{}
	in := model.TurnInput{ThreadID: "t1", Query: "nueva consulta", Snapshot: snapshot}

	out, err := NewPrepareTurnPreHandler()(context.Background(), in, s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	require.Same(t, snapshot, s.Conv)
	assert.Equal(t, "nueva consulta", s.Conv.Input)
	assert.Empty(t, s.Conv.Answer)
	assert.Empty(t, s.Conv.Context)
	assert.False(t, s.Conv.Ambiguity.IsAmbiguous)
}

func TestPrepareTurnPreHandlerNewThread(t *testing.T) {
	s := &model.AppState{}
	_, err := NewPrepareTurnPreHandler()(context.Background(), model.TurnInput{ThreadID: "t2", Query: "hola"}, s)
	require.NoError(t, err)
	require.NotNil(t, s.Conv)
	assert.Equal(t, "t2", s.Conv.ThreadID)
}

func TestTopicCondition(t *testing.T) {
	cond := NewTopicCondition()

	got, err := cond(context.Background(), router.TopicLocation)
	require.NoError(t, err)
	assert.Equal(t, NodeHandleLocation, got)

	for _, topic := range []string{router.TopicWelcome, router.TopicRequirements, router.TopicPlantTariff} {
		got, err := cond(context.Background(), topic)
		require.NoError(t, err)
		assert.Equal(t, NodeAmbiguityClassifier, got)
	}
}

func TestAmbiguityCondition(t *testing.T) {
	cond := NewAmbiguityCondition()

	got, err := cond(context.Background(), model.AmbiguityClassification{
		IsAmbiguous:           true,
		ClarificationQuestion: "¿Qué tipo de vehículo tienes?",
	})
	require.NoError(t, err)
	assert.Equal(t, NodeAskClarification, got)

	// the verdict alone routes, even when the question came back empty
	got, err = cond(context.Background(), model.AmbiguityClassification{IsAmbiguous: true})
	require.NoError(t, err)
	assert.Equal(t, NodeAskClarification, got)

	got, err = cond(context.Background(), model.AmbiguityClassification{})
	require.NoError(t, err)
	assert.Equal(t, NodeGenerateResponse, got)
}

func TestAskClarificationPostHandler(t *testing.T) {
	s := &model.AppState{Conv: model.NewConversationState("t1")}
	s.Conv.Input = "¿qué requisitos piden?"
	s.Conv.Ambiguity = model.AmbiguityClassification{
		IsAmbiguous:           true,
		AmbiguityCategory:     model.CategoryVehicleType,
		ClarificationQuestion: "¿Qué tipo de vehículo tienes?",
	}
	answer := schema.AssistantMessage(clarificationPrefix+"¿Qué tipo de vehículo tienes?", nil)

	out, err := NewAskClarificationPostHandler()(context.Background(), answer, s)
	require.NoError(t, err)
	assert.Same(t, answer, out)
	assert.Equal(t, answer.Content, s.Conv.Answer)
	require.Len(t, s.Conv.Messages, 2)
	assert.Equal(t, schema.User, s.Conv.Messages[0].Role)
	assert.Equal(t, []string{"¿Qué tipo de vehículo tienes?"}, s.Conv.PreviousQuestions)
	assert.Equal(t, []string{model.CategoryVehicleType}, s.Conv.PreviousCategories)
}

func TestGenerateResponsePostHandler(t *testing.T) {
	s := &model.AppState{Conv: model.NewConversationState("t1")}
	s.Conv.Input = "¿cuánto cuesta para taxi en ate?"
	answer := schema.AssistantMessage("La tarifa para taxi es...", nil)

	_, err := NewGenerateResponsePostHandler()(context.Background(), answer, s)
	require.NoError(t, err)
	assert.Equal(t, "La tarifa para taxi es...", s.Conv.Answer)
	require.Len(t, s.Conv.Messages, 2)
	assert.Equal(t, schema.Assistant, s.Conv.Messages[1].Role)
}

func TestSemanticRouterPostHandler(t *testing.T) {
	s := &model.AppState{Conv: model.NewConversationState("t1")}

	topic, err := NewSemanticRouterPostHandler()(context.Background(), router.TopicPlantTariff, s)
	require.NoError(t, err)
	assert.Equal(t, router.TopicPlantTariff, topic)
	assert.Equal(t, router.TopicPlantTariff, s.Conv.CurrentTopic)
}

func TestResumePreparePreHandler(t *testing.T) {
	snapshot := model.NewConversationState("t1")
	snapshot.Answer = "respuesta anterior"
	snapshot.AwaitingFeedback = true

	s := &model.AppState{}
	_, err := NewResumePreparePreHandler()(context.Background(), model.TurnInput{ThreadID: "t1", Query: "más detalles", Snapshot: snapshot}, s)
	require.NoError(t, err)
	assert.Same(t, snapshot, s.Conv)
	assert.Equal(t, "más detalles", s.Conv.Input)
	assert.Empty(t, s.Conv.Answer)
}
