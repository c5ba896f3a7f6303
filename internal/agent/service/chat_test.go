package service

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
)

type memoryRepo struct {
	states map[string]*model.ConversationState
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{states: map[string]*model.ConversationState{}}
}

func (r *memoryRepo) Load(ctx context.Context, threadID string) (*model.ConversationState, error) {
	return r.states[threadID], nil
}

func (r *memoryRepo) Save(ctx context.Context, state *model.ConversationState) error {
	r.states[state.ThreadID] = state
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, threadID string) error {
	delete(r.states, threadID)
	return nil
}

// stubRunner mimics a graph run by mutating the snapshot the way the state
// handlers would.
type stubRunner struct {
	answer    string
	topic     string
	ambiguity model.AmbiguityClassification
	err       error
	calls     int
}

func (s *stubRunner) Invoke(ctx context.Context, in model.TurnInput) (*schema.Message, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	in.Snapshot.Input = in.Query
	in.Snapshot.Answer = s.answer
	in.Snapshot.CurrentTopic = s.topic
	in.Snapshot.Ambiguity = s.ambiguity
	in.Snapshot.Messages = append(in.Snapshot.Messages,
		schema.UserMessage(in.Query),
		schema.AssistantMessage(s.answer, nil),
	)
	return schema.AssistantMessage(s.answer, nil), nil
}

func newService(turn, resume *stubRunner, repo model.ThreadRepository) *ChatService {
	return NewChatService(&graph.Graphs{Turn: turn, Resume: resume}, repo)
}

func TestProcessMessageInterruptsAfterFullAnswer(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{answer: "Los requisitos para taxi son...", topic: router.TopicRequirements}
	svc := newService(turn, &stubRunner{}, repo)

	result := svc.ProcessMessage(context.Background(), "¿Qué requisitos piden para taxi?", "t1", false, false)

	assert.Equal(t, StatusInterrupted, result.Status)
	assert.Equal(t, InterruptInstruction, result.InterruptMessage)
	assert.Equal(t, "Los requisitos para taxi son...", result.Answer)

	saved := repo.states["t1"]
	require.NotNil(t, saved)
	assert.True(t, saved.AwaitingFeedback)
}

func TestProcessMessageClarificationCompletes(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{
		answer: "Para ayudarte mejor, necesito más información. ¿Qué tipo de vehículo tienes?",
		topic:  router.TopicRequirements,
		ambiguity: model.AmbiguityClassification{
			IsAmbiguous:           true,
			AmbiguityCategory:     model.CategoryVehicleType,
			ClarificationQuestion: "¿Qué tipo de vehículo tienes?",
		},
	}
	svc := newService(turn, &stubRunner{}, repo)

	result := svc.ProcessMessage(context.Background(), "¿Qué requisitos piden?", "t1", false, false)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Empty(t, result.InterruptMessage)
	require.NotNil(t, repo.states["t1"])
	assert.False(t, repo.states["t1"].AwaitingFeedback)
}

func TestProcessMessageLocationCompletes(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{answer: "La planta más cercana es...", topic: router.TopicLocation}
	svc := newService(turn, &stubRunner{}, repo)

	result := svc.ProcessMessage(context.Background(), "Estoy en Comas, ¿dónde queda la planta?", "t1", false, false)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.False(t, repo.states["t1"].AwaitingFeedback)
}

func TestProcessMessageResumesThroughFeedbackLoop(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{answer: "respuesta completa", topic: router.TopicRequirements}
	resume := &stubRunner{answer: "respuesta al feedback", topic: router.TopicRequirements}
	svc := newService(turn, resume, repo)

	first := svc.ProcessMessage(context.Background(), "¿Cuánto cuesta la revisión para taxi?", "t1", false, false)
	require.Equal(t, StatusInterrupted, first.Status)

	second := svc.ProcessMessage(context.Background(), "¿Y si mi taxi tiene GLP?", "t1", false, false)
	assert.Equal(t, StatusInterrupted, second.Status)
	assert.Equal(t, "respuesta al feedback", second.Answer)
	assert.Equal(t, 1, resume.calls)
	assert.Equal(t, 1, turn.calls)
	assert.Equal(t, []string{"¿Y si mi taxi tiene GLP?"}, repo.states["t1"].Feedback)
}

func TestProcessMessageExplicitResumeFlag(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{answer: "no debería llamarse"}
	resume := &stubRunner{answer: "respuesta al feedback", topic: router.TopicRequirements}
	svc := newService(turn, resume, repo)

	// the caller forces the feedback path even though the thread is not
	// parked at the gate
	result := svc.ProcessMessage(context.Background(), "más detalle por favor", "t1", true, false)

	assert.Equal(t, StatusInterrupted, result.Status)
	assert.Equal(t, "respuesta al feedback", result.Answer)
	assert.Equal(t, 0, turn.calls)
	assert.Equal(t, 1, resume.calls)
}

func TestProcessMessageTerminationClosesLoop(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{answer: "respuesta completa", topic: router.TopicRequirements}
	resume := &stubRunner{answer: "no debería llamarse"}
	svc := newService(turn, resume, repo)

	svc.ProcessMessage(context.Background(), "¿Cuánto cuesta la revisión?", "t1", false, false)

	for _, termination := range []string{"done", " Gracias ", "ADIÓS"} {
		repo.states["t1"].AwaitingFeedback = true
		result := svc.ProcessMessage(context.Background(), termination, "t1", false, false)
		assert.Equal(t, StatusCompleted, result.Status)
		assert.Contains(t, result.Answer, "Gracias por su consulta")
		assert.False(t, repo.states["t1"].AwaitingFeedback)
	}
	assert.Equal(t, 0, resume.calls)
}

func TestProcessMessageResetDropsState(t *testing.T) {
	repo := newMemoryRepo()
	old := model.NewConversationState("t1")
	old.Summary = "conversación previa"
	old.AwaitingFeedback = true
	repo.states["t1"] = old

	turn := &stubRunner{answer: "hola", topic: router.TopicWelcome}
	svc := newService(turn, &stubRunner{}, repo)

	result := svc.ProcessMessage(context.Background(), "Hola", "t1", false, true)

	assert.Equal(t, StatusInterrupted, result.Status)
	assert.Empty(t, repo.states["t1"].Summary)
	assert.Equal(t, 1, turn.calls)
}

func TestProcessMessageGraphErrorReported(t *testing.T) {
	repo := newMemoryRepo()
	turn := &stubRunner{err: assert.AnError}
	svc := newService(turn, &stubRunner{}, repo)

	result := svc.ProcessMessage(context.Background(), "hola", "t1", false, false)

	assert.Equal(t, StatusError, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.Equal(t, errorAnswer, result.Answer)
}

func TestGetHistory(t *testing.T) {
	repo := newMemoryRepo()
	state := model.NewConversationState("t1")
	state.Messages = []*schema.Message{
		schema.UserMessage("Hola"),
		schema.AssistantMessage("¡Hola! ¿En qué te ayudo?", nil),
		schema.SystemMessage("interno"),
	}
	repo.states["t1"] = state

	svc := newService(&stubRunner{}, &stubRunner{}, repo)
	history, err := svc.GetHistory(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, HistoryEntry{Role: "human", Content: "Hola"}, history[0])
	assert.Equal(t, HistoryEntry{Role: "ai", Content: "¡Hola! ¿En qué te ayudo?"}, history[1])
}

func TestGetHistoryUnknownThread(t *testing.T) {
	svc := newService(&stubRunner{}, &stubRunner{}, newMemoryRepo())
	history, err := svc.GetHistory(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}
