package prompts

import (
	"context"
	_ "embed"
	"strings"

	"github.com/DarkCodePE/agent-auto-nort/internal/agent/router"
)

//go:embed template/ambiguity_requirements.txt
var ambiguityRequirementsPrompt string

//go:embed template/ambiguity_plant.txt
var ambiguityPlantPrompt string

//go:embed template/ambiguity_welcome.txt
var ambiguityWelcomePrompt string

// AmbiguityVars carries the rendered values for the ambiguity classifier.
// Unknown facts arrive as the literal "None" so the prompt rules can match
// on it.
type AmbiguityVars struct {
	UserQuery          string
	RetrievedContext   string
	PreviousQuestions  string
	PreviousCategories string
	VehicleType        string
	Location           string
	PlantLocation      string
	Model              string
	Annual             string
	RecentMessages     string
}

// RenderAmbiguity renders the ambiguity classifier prompt for the routed
// topic. Tariff and plant questions get the stricter plant rules, greetings
// get the welcome rules, everything else falls back to requirements.
func RenderAmbiguity(ctx context.Context, topic string, vars AmbiguityVars) (string, error) {
	var template string
	switch topic {
	case router.TopicPlantTariff:
		template = ambiguityPlantPrompt
	case router.TopicWelcome:
		template = ambiguityWelcomePrompt
	default:
		template = ambiguityRequirementsPrompt
	}

	content := strings.NewReplacer(
		"{user_query}", vars.UserQuery,
		"{retrieved_context}", vars.RetrievedContext,
		"{previous_questions}", vars.PreviousQuestions,
		"{previous_categories}", vars.PreviousCategories,
		"{vehicle_type}", vars.VehicleType,
		"{location}", vars.Location,
		"{plant_location}", vars.PlantLocation,
		"{model}", vars.Model,
		"{annual}", vars.Annual,
		"{recent_messages}", vars.RecentMessages,
	).Replace(template)
	return wrapSystem(ctx, content)
}
