package prompts

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed template/extraction_prompt.txt
var extractionSystemPrompt string

// RenderExtraction renders the vehicle fact extraction prompt. Only known
// tokens are replaced so the JSON braces in the template stay intact.
func RenderExtraction(ctx context.Context, question, messages, previousQuestions string) (string, error) {
	content := strings.NewReplacer(
		"{question}", question,
		"{messages}", messages,
		"{previous_questions}", previousQuestions,
	).Replace(extractionSystemPrompt)
	return wrapSystem(ctx, content)
}
