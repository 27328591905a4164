package dto

import "study-copilot-be/pkg/speech"

type TranscriptRequest struct {
	SubjectId  string `json:"subject_id" validate:"required"`
	Transcript string `json:"transcript" validate:"required"`
}

type VoiceStateResponse struct {
	Enabled  bool `json:"enabled"`
	Muted    bool `json:"muted"`
	Speaking bool `json:"speaking"`
}

type SetVoicesRequest struct {
	Voices []speech.Voice `json:"voices" validate:"required,dive"`
}

type SetVoicesResponse struct {
	Selected *speech.Voice `json:"selected"`
}

type SpeechEventRequest struct {
	UtteranceId string `json:"utterance_id" validate:"required"`
	Event       string `json:"event" validate:"required,oneof=start end error"`
}
