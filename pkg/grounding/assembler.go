// Package grounding turns a subject's uploaded notes into the context
// block and system instruction for the model.
package grounding

import (
	"strings"

	"study-copilot-be/internal/entity"
)

// BuildContext renders a subject's files as one context string: each file
// becomes a labeled block, blocks joined by a blank line. Pure function of
// the file sequence; callers must recompute it after every mutation, never
// cache across requests.
func BuildContext(subject *entity.Subject) string {
	if subject == nil || len(subject.Files) == 0 {
		return ""
	}

	var b strings.Builder
	for i, f := range subject.Files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Source File: ")
		b.WriteString(f.Name)
		b.WriteString("\n")
		b.WriteString(f.Content)
	}
	return b.String()
}
