// Package envelope recovers the structured answer object from raw
// assistant output. Models wrap JSON in markdown fences or emit free-form
// text mid-stream, so parsing is best-effort with a first-class raw
// fallback rather than an error path.
package envelope

import (
	"encoding/json"
	"regexp"
	"strings"
)

// AnswerEnvelope is the JSON shape the prompt contract asks the model for.
// Confidence and Evidence are kept loose: models emit numbers, strings or
// nested objects depending on mood.
type AnswerEnvelope struct {
	Answer     string          `json:"answer"`
	Citation   string          `json:"citation"`
	Confidence json.RawMessage `json:"confidence"`
	Evidence   json.RawMessage `json:"evidence"`
}

// Result is the tagged outcome of parsing: either Parsed with a valid
// envelope, or the verbatim raw text. An unparsed result is the normal
// state while a stream is incomplete, never an error.
type Result struct {
	Parsed   bool
	Envelope AnswerEnvelope
	Raw      string
}

var jsonFence = regexp.MustCompile("(?i)```json")

// Parse strips code-fence markers anywhere in the text, trims whitespace
// and attempts a JSON parse. UI rendering and speakable-text extraction
// both go through here so displayed and spoken text never diverge.
func Parse(raw string) Result {
	clean := jsonFence.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var env AnswerEnvelope
	if err := json.Unmarshal([]byte(clean), &env); err != nil {
		return Result{Raw: raw}
	}
	return Result{Parsed: true, Envelope: env, Raw: raw}
}

// DisplayText is what the UI renders for an assistant turn: the parsed
// answer when present, otherwise the raw text verbatim.
func (r Result) DisplayText() string {
	if r.Parsed && r.Envelope.Answer != "" {
		return r.Envelope.Answer
	}
	return r.Raw
}

// Citation returns the citation annotation and whether one exists.
// Whitespace-only citations count as absent.
func (r Result) Citation() (string, bool) {
	if !r.Parsed {
		return "", false
	}
	if strings.TrimSpace(r.Envelope.Citation) == "" {
		return "", false
	}
	return r.Envelope.Citation, true
}

// SpeakableText feeds the voice bridge. Identical rule to DisplayText.
func (r Result) SpeakableText() string {
	return r.DisplayText()
}
