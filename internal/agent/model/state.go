package model

import (
	"github.com/cloudwego/eino/schema"
)

// AmbiguityClassification is the structured verdict of the ambiguity
// classifier for the current turn. It is recomputed every turn and never
// persisted across turns.
type AmbiguityClassification struct {
	IsAmbiguous           bool   `json:"is_ambiguous"`
	AmbiguityCategory     string `json:"ambiguity_category"`
	ClarificationQuestion string `json:"clarification_question"`
}

// Ambiguity categories the classifier may return.
const (
	CategoryVehicleType      = "TIPO_VEHICULO"
	CategoryFirstTimeRenewal = "PRIMERA_VEZ_RENOVACION"
	CategoryDocumentation    = "DOCUMENTACION"
	CategorySchedule         = "CRONOGRAMA"
	CategoryPlantLocation    = "PLANTAS_UBICACION"
	CategoryVehicleCondition = "ESTADO_VEHICULO"
	CategoryProcedure        = "PROCEDIMIENTO"
	CategoryNone             = "NINGUNA"
)

// VehicleInfo is the structured extraction result for one turn. Nil fields
// mean the model found nothing for that slot in the analyzed window.
type VehicleInfo struct {
	VehicleType   *string `json:"vehicle_type"`
	Model         *string `json:"model"`
	Annual        *string `json:"annual"`
	Location      *string `json:"location"`
	PlantLocation *string `json:"plant_location"`
}

// PlantDistance is one ranked entry of the location handler's output.
type PlantDistance struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Hours        string  `json:"hours"`
	DistanceKm   float64 `json:"distance_km"`
	DurationMin  float64 `json:"duration_min"`
	DistanceText string  `json:"distance_text"`
	DurationText string  `json:"duration_text"`
}

// ConversationState is the per-thread record threaded through every node of a
// turn and persisted between turns.
//
// Concurrency model:
//   - The struct is attached to the graph's local state via
//     compose.WithGenLocalState and is only touched inside Eino state
//     handlers or compose.ProcessState, which serialize access.
//   - Between turns it is owned by the thread repository; one thread id owns
//     exactly one state.
type ConversationState struct {
	ThreadID string `json:"thread_id"`

	// Current turn.
	Input  string `json:"input"`
	Answer string `json:"answer"`

	// Context holds the retrieved document snippets for the current turn.
	// Recomputed on every turn, never persisted.
	Context string `json:"-"`

	// Ambiguity is the classifier verdict for the current turn only.
	Ambiguity AmbiguityClassification `json:"-"`

	Messages []*schema.Message `json:"messages"`
	Summary  string            `json:"summary"`

	// Fact fields. Once set they survive turns where the extraction returns
	// nothing; see MergeVehicleInfo.
	VehicleType   *string `json:"vehicle_type"`
	Location      *string `json:"location"`
	PlantLocation *string `json:"plant_location"`
	Model         *string `json:"model"`
	Annual        *string `json:"annual"`

	PreviousQuestions  []string `json:"previous_questions"`
	PreviousCategories []string `json:"previous_categories"`

	CurrentTopic  string          `json:"current_topic"`
	NearestPlants []PlantDistance `json:"nearest_plants"`

	Feedback []string `json:"feedback"`

	// AwaitingFeedback marks the recorded resumption point: the turn is
	// parked at the human-feedback gate and the next call must resume.
	AwaitingFeedback bool `json:"awaiting_feedback"`
}

// NewConversationState returns a fresh state for a new or reset thread.
func NewConversationState(threadID string) *ConversationState {
	return &ConversationState{
		ThreadID:           threadID,
		Messages:           []*schema.Message{},
		PreviousQuestions:  []string{},
		PreviousCategories: []string{},
		NearestPlants:      []PlantDistance{},
		Feedback:           []string{},
	}
}

// FactReducer merges a newly extracted fact value into the previous one.
type FactReducer func(old, new *string) *string

// PreserveIfNil keeps the previous value whenever the extraction produced
// nothing for the field. A fact never reverts to nil once set.
func PreserveIfNil(old, new *string) *string {
	if new == nil {
		return old
	}
	return new
}

// KeepExisting keeps the first value ever set; later extractions only fill
// the field while it is still empty.
func KeepExisting(old, new *string) *string {
	if old != nil {
		return old
	}
	return new
}

// factReducers registers the merge policy per fact field. plant_location is
// first-write-wins; the rest only resist null extractions.
var factReducers = struct {
	vehicleType, location, plantLocation, model, annual FactReducer
}{
	vehicleType:   PreserveIfNil,
	location:      PreserveIfNil,
	plantLocation: KeepExisting,
	model:         PreserveIfNil,
	annual:        PreserveIfNil,
}

// MergeVehicleInfo folds one turn's extraction into the state using the
// registered per-field reducers.
func (s *ConversationState) MergeVehicleInfo(info VehicleInfo) {
	s.VehicleType = factReducers.vehicleType(s.VehicleType, info.VehicleType)
	s.Location = factReducers.location(s.Location, info.Location)
	s.PlantLocation = factReducers.plantLocation(s.PlantLocation, info.PlantLocation)
	s.Model = factReducers.model(s.Model, info.Model)
	s.Annual = factReducers.annual(s.Annual, info.Annual)
}

// AppendClarification records an asked clarification question together with
// its category. Both sequences only ever grow and stay index-aligned.
func (s *ConversationState) AppendClarification(question, category string) {
	s.PreviousQuestions = append(s.PreviousQuestions, question)
	s.PreviousCategories = append(s.PreviousCategories, category)
}

// RecentMessages returns the last n messages without copying beyond the
// window.
func (s *ConversationState) RecentMessages(n int) []*schema.Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// ShouldSummarize reports whether the message list exceeded the compaction
// threshold.
func (s *ConversationState) ShouldSummarize(threshold int) bool {
	return len(s.Messages) > threshold
}

// AppState is the Eino graph local state for one invocation. It wraps the
// thread's ConversationState so every mutation made inside state handlers
// lands on the object the caller will persist after the run.
type AppState struct {
	Conv *ConversationState
}

// TurnInput starts one graph run for a thread.
type TurnInput struct {
	ThreadID string             `json:"thread_id"`
	Query    string             `json:"query"`
	Snapshot *ConversationState `json:"-"`
}
