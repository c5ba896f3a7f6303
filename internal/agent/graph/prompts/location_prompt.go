package prompts

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed template/location_prompt.txt
var locationSystemPrompt string

// LocationVars carries the rendered values for the plant location prompt.
type LocationVars struct {
	UserQuery      string
	Location       string
	VehicleType    string
	NearestPlants  string
	RecentMessages string
}

// RenderLocation renders the prompt that phrases the nearest-plants answer.
func RenderLocation(ctx context.Context, vars LocationVars) (string, error) {
	content := strings.NewReplacer(
		"{user_query}", vars.UserQuery,
		"{location}", vars.Location,
		"{vehicle_type}", vars.VehicleType,
		"{nearest_plants}", vars.NearestPlants,
		"{recent_messages}", vars.RecentMessages,
	).Replace(locationSystemPrompt)
	return wrapSystem(ctx, content)
}

// SummaryInstruction builds the user-turn instruction for the summarize
// step: extend an existing summary or create one from scratch.
func SummaryInstruction(summary string) string {
	if summary != "" {
		return "Este es el resumen actual de la conversación: " + summary +
			"\n\nExtiende el resumen incorporando los nuevos mensajes anteriores. Responde solo con el resumen."
	}
	return "Crea un resumen de la conversación anterior. Responde solo con el resumen."
}
