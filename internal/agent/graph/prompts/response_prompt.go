package prompts

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed template/response_prompt.txt
var responseSystemPrompt string

// RenderResponseSystem renders the assistant persona prompt with the
// retrieved context, the conversation history (or its summary) and the known
// vehicle facts.
func RenderResponseSystem(ctx context.Context, contextText, chatHistory, vehicleInfo string) (string, error) {
	content := strings.NewReplacer(
		"{context}", contextText,
		"{chat_history}", chatHistory,
		"{vehicle_info}", vehicleInfo,
	).Replace(responseSystemPrompt)
	return wrapSystem(ctx, content)
}
