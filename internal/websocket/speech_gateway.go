package websocket

import "study-copilot-be/pkg/speech"

// SpeechGateway carries utterances to the browser speech engine over the
// hub. It satisfies the synthesizer contract of the voice bridge.
type SpeechGateway struct {
	hub *Hub
}

func NewSpeechGateway(hub *Hub) *SpeechGateway {
	return &SpeechGateway{hub: hub}
}

func (g *SpeechGateway) Speak(utteranceId, text string, voice *speech.Voice, rate, pitch float64) {
	payload := map[string]interface{}{
		"utterance_id": utteranceId,
		"text":         text,
		"rate":         rate,
		"pitch":        pitch,
	}
	if voice != nil {
		payload["voice"] = voice
	}
	g.hub.Broadcast("speech.speak", payload)
}

func (g *SpeechGateway) Cancel() {
	g.hub.Broadcast("speech.cancel", nil)
}
