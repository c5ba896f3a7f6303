package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/graph"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/model"
	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
	logx "github.com/DarkCodePE/agent-auto-nort/pkg/logger"
)

// Statuses reported per processed message.
const (
	StatusCompleted   = "completed"
	StatusInterrupted = "interrupted"
	StatusError       = "error"
)

// InterruptInstruction tells the user how to leave the feedback loop.
const InterruptInstruction = "Proporcione su feedback o escriba 'done' para finalizar"

const closingAnswer = "Gracias por su consulta sobre revisiones técnicas vehiculares. Esperamos haberle sido de ayuda."

const errorAnswer = "Lo siento, ocurrió un error al procesar tu mensaje. Por favor intenta de nuevo."

// terminationInputs close the feedback loop when received as feedback.
var terminationInputs = map[string]struct{}{
	"done":    {},
	"gracias": {},
	"adiós":   {},
}

// ChatResult is the outcome of one processed message.
type ChatResult struct {
	ThreadID         string `json:"thread_id"`
	Message          string `json:"message"`
	Answer           string `json:"answer"`
	Status           string `json:"status"`
	InterruptMessage string `json:"interrupt_message,omitempty"`
	Error            string `json:"error,omitempty"`
}

// HistoryEntry is one formatted message of a thread's history.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatService drives the conversation graphs and owns thread persistence.
// After a full answer the thread parks at the feedback gate; the next message
// on the same thread resumes through the short graph until the user closes
// the loop.
type ChatService struct {
	graphs  *graph.Graphs
	threads model.ThreadRepository
}

func NewChatService(graphs *graph.Graphs, threads model.ThreadRepository) *ChatService {
	return &ChatService{graphs: graphs, threads: threads}
}

// ProcessMessage runs one turn for the thread and persists the updated state.
// It never returns an error; failures come back as a result with StatusError.
// isResuming forces the feedback path; a thread parked at the feedback gate
// resumes regardless, from the marker recorded in its persisted state.
func (s *ChatService) ProcessMessage(ctx context.Context, message, threadID string, isResuming, resetThread bool) (result ChatResult) {
	result = ChatResult{ThreadID: threadID, Message: message}

	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("thread_id", threadID).Interface("panic", r).Msg("panic while processing message")
			result.Status = StatusError
			result.Answer = errorAnswer
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	if resetThread {
		if err := s.threads.Delete(ctx, threadID); err != nil {
			logx.Warn().Err(err).Str("thread_id", threadID).Msg("failed to reset thread state")
		}
	}

	var state *model.ConversationState
	if !resetThread {
		loaded, err := s.threads.Load(ctx, threadID)
		if err != nil {
			return s.fail(result, fmt.Errorf("load thread state: %w", err))
		}
		state = loaded
	}
	if state == nil {
		state = model.NewConversationState(threadID)
	}

	if isResuming || state.AwaitingFeedback {
		return s.resume(ctx, state, message, result)
	}

	if _, err := s.graphs.Turn.Invoke(ctx, model.TurnInput{
		ThreadID: threadID,
		Query:    message,
		Snapshot: state,
	}); err != nil {
		return s.fail(result, fmt.Errorf("turn graph: %w", err))
	}

	// Clarification and location turns stay open without the feedback gate;
	// a full answer parks the thread until the user reacts.
	interrupted := !state.Ambiguity.IsAmbiguous && state.CurrentTopic != router.TopicLocation
	state.AwaitingFeedback = interrupted

	if err := s.threads.Save(ctx, state); err != nil {
		return s.fail(result, fmt.Errorf("save thread state: %w", err))
	}

	result.Answer = state.Answer
	if interrupted {
		result.Status = StatusInterrupted
		result.InterruptMessage = InterruptInstruction
	} else {
		result.Status = StatusCompleted
	}
	return result
}

// resume handles a message that arrives while the thread is parked at the
// feedback gate.
func (s *ChatService) resume(ctx context.Context, state *model.ConversationState, feedback string, result ChatResult) ChatResult {
	state.Feedback = append(state.Feedback, feedback)

	if _, terminal := terminationInputs[strings.ToLower(strings.TrimSpace(feedback))]; terminal {
		state.AwaitingFeedback = false
		state.Answer = closingAnswer
		if err := s.threads.Save(ctx, state); err != nil {
			return s.fail(result, fmt.Errorf("save thread state: %w", err))
		}
		result.Answer = closingAnswer
		result.Status = StatusCompleted
		return result
	}

	if _, err := s.graphs.Resume.Invoke(ctx, model.TurnInput{
		ThreadID: state.ThreadID,
		Query:    feedback,
		Snapshot: state,
	}); err != nil {
		return s.fail(result, fmt.Errorf("resume graph: %w", err))
	}

	state.AwaitingFeedback = true
	if err := s.threads.Save(ctx, state); err != nil {
		return s.fail(result, fmt.Errorf("save thread state: %w", err))
	}

	result.Answer = state.Answer
	result.Status = StatusInterrupted
	result.InterruptMessage = InterruptInstruction
	return result
}

func (s *ChatService) fail(result ChatResult, err error) ChatResult {
	logx.Error().Err(err).Str("thread_id", result.ThreadID).Msg("message processing failed")
	result.Status = StatusError
	result.Answer = errorAnswer
	result.Error = err.Error()
	return result
}

// GetHistory returns the formatted message history for a thread. An unknown
// thread yields an empty history.
func (s *ChatService) GetHistory(ctx context.Context, threadID string) ([]HistoryEntry, error) {
	state, err := s.threads.Load(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("load thread state: %w", err)
	}
	if state == nil {
		return []HistoryEntry{}, nil
	}

	history := make([]HistoryEntry, 0, len(state.Messages))
	for _, m := range state.Messages {
		if m == nil || strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch m.Role {
		case schema.User:
			history = append(history, HistoryEntry{Role: "human", Content: m.Content})
		case schema.Assistant:
			history = append(history, HistoryEntry{Role: "ai", Content: m.Content})
		}
	}
	return history, nil
}

// Reset drops the persisted state for a thread.
func (s *ChatService) Reset(ctx context.Context, threadID string) error {
	return s.threads.Delete(ctx, threadID)
}
