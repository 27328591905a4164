package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	MessagePartTypeText = "text"

	// Conversation session states. Submitted covers the window between
	// accepting a request and the first streamed chunk.
	ChatStatusIdle      = "idle"
	ChatStatusSubmitted = "submitted"
	ChatStatusStreaming = "streaming"
	ChatStatusError     = "error"

	// STRICT GROUNDING CONTRACT
	// The instruction is advisory to the model; the envelope parser must
	// tolerate non-conforming output. %s is the context block.
	SystemInstructionTemplate = `You are a strict study assistant. Answer ONLY using the provided Context. You MUST respond in valid JSON format with the keys: "answer", "citation", "confidence", "evidence". If the answer is not in the context, set "answer" to EXACTLY: "Not found in your notes for this Subject".

Context:
%s`

	// NotFoundSentinel must match the prompt contract byte-for-byte.
	// Tests assert exact equality, never substring match.
	NotFoundSentinel = "Not found in your notes for this Subject"

	// NoContextSentinel replaces an empty context string in the system
	// instruction so the model never sees an ambiguous empty block.
	NoContextSentinel = "No context provided."

	// Canned user prompt behind the quiz endpoint. Goes through the same
	// chat path as typed input.
	QuizPrompt = `Generate a study guide based STRICTLY on the uploaded notes. Put the ENTIRE study guide formatted in Markdown inside the "answer" field of your JSON response. Include: 1) 5 Multiple-Choice Questions with explanations. 2) 3 short-answer questions. You MUST include citations.`

	// Surfaced for the speech-input permission-denied condition, distinct
	// from generic speech errors.
	MicPermissionDeniedMessage = "Microphone access blocked. Please click the lock icon in your URL bar and allow microphone access."
)

// Seed subjects created at process start. Append-only thereafter.
var SeedSubjects = []struct {
	Id   string
	Name string
}{
	{Id: "physics", Name: "Physics"},
	{Id: "chemistry", Name: "Chemistry"},
	{Id: "math", Name: "Math"},
}
