package speech

import (
	"sync"

	"github.com/google/uuid"

	"study-copilot-be/pkg/envelope"
)

// Utterance parameters mirrored by the client engine.
const (
	UtteranceRate  = 0.95
	UtterancePitch = 1.05
)

// Synthesizer is the speech-output gateway: it carries utterances to the
// client's speech engine and cancels them. The websocket hub implements it.
type Synthesizer interface {
	Speak(utteranceId, text string, voice *Voice, rate, pitch float64)
	Cancel()
}

// Bridge drives speech output for completed assistant turns.
type Bridge interface {
	// Speak extracts speakable text from a raw assistant turn and starts a
	// new utterance, cancelling any active one first. No-op while muted.
	Speak(raw string)
	// Stop cancels the in-progress utterance, if any.
	Stop()
	// ToggleMute flips the mute state; muting cancels any active
	// utterance immediately. Returns the new muted state.
	ToggleMute() bool
	// HandleEvent records start/end/error events reported by the engine.
	HandleEvent(utteranceId, event string)
	// SetVoices records the client's available voices and re-selects the
	// preferred one.
	SetVoices(voices []Voice)

	Muted() bool
	Speaking() bool
	Enabled() bool
}

const (
	EventStart = "start"
	EventEnd   = "end"
	EventError = "error"
)

type bridge struct {
	mu    sync.Mutex
	synth Synthesizer

	muted    bool
	speaking bool
	current  string // active utterance id, "" when idle
	voice    *Voice
}

// NewBridge builds the voice bridge over a synthesizer gateway. A nil
// synthesizer means the capability is absent; a disabled no-op bridge is
// returned instead (feature detection at initialization, no scattered
// branching at call sites).
func NewBridge(synth Synthesizer) Bridge {
	if synth == nil {
		return disabledBridge{}
	}
	return &bridge{synth: synth}
}

func (b *bridge) Speak(raw string) {
	text := envelope.Parse(raw).SpeakableText()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.muted || text == "" {
		return
	}

	// At most one utterance active: always cancel before starting.
	b.synth.Cancel()

	b.current = uuid.NewString()
	b.speaking = true
	b.synth.Speak(b.current, text, b.voice, UtteranceRate, UtterancePitch)
}

func (b *bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelLocked()
}

func (b *bridge) cancelLocked() {
	b.synth.Cancel()
	b.current = ""
	b.speaking = false
}

func (b *bridge) ToggleMute() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.muted = !b.muted
	if b.muted {
		b.cancelLocked()
	}
	return b.muted
}

func (b *bridge) HandleEvent(utteranceId, event string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Events for superseded utterances arrive late; ignore them.
	if utteranceId != b.current {
		return
	}
	switch event {
	case EventStart:
		b.speaking = true
	case EventEnd, EventError:
		b.current = ""
		b.speaking = false
	}
}

func (b *bridge) SetVoices(voices []Voice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v, ok := SelectBestVoice(voices); ok {
		b.voice = &v
	} else {
		b.voice = nil
	}
}

func (b *bridge) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.muted
}

func (b *bridge) Speaking() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.speaking
}

func (b *bridge) Enabled() bool { return true }

// disabledBridge is installed when no synthesizer gateway exists. Every
// operation is a silent no-op; the feature simply reports disabled.
type disabledBridge struct{}

func (disabledBridge) Speak(string)                {}
func (disabledBridge) Stop()                       {}
func (disabledBridge) ToggleMute() bool            { return true }
func (disabledBridge) HandleEvent(string, string)  {}
func (disabledBridge) SetVoices([]Voice)           {}
func (disabledBridge) Muted() bool                 { return true }
func (disabledBridge) Speaking() bool              { return false }
func (disabledBridge) Enabled() bool               { return false }
