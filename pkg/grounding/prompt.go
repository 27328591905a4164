package grounding

import (
	"fmt"

	"study-copilot-be/internal/constant"
)

// BuildSystemInstruction interpolates the context into the fixed grounding
// contract. An empty context is rendered as the explicit no-context
// sentinel so the prompt is never ambiguous about missing notes.
func BuildSystemInstruction(contextString string) string {
	if contextString == "" {
		contextString = constant.NoContextSentinel
	}
	return fmt.Sprintf(constant.SystemInstructionTemplate, contextString)
}
