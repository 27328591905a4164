package service

import (
	"context"
	"encoding/json"

	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/pkg/logger"
	"study-copilot-be/pkg/speech"
)

type IVoiceService interface {
	// Transcript feeds recognized speech into the chat path. The reply
	// streams over the hub only.
	Transcript(ctx context.Context, subjectId, transcript string) error
	ToggleMute() dto.VoiceStateResponse
	State() dto.VoiceStateResponse
	SetVoices(voices []speech.Voice) dto.SetVoicesResponse
	// HandleEngineMessage consumes websocket frames sent by the client's
	// speech engine.
	HandleEngineMessage(raw []byte)
}

type voiceService struct {
	chatService IChatService
	bridge      speech.Bridge
	hub         Broadcaster
	logger      logger.ILogger
}

func NewVoiceService(chatService IChatService, bridge speech.Bridge, hub Broadcaster, log logger.ILogger) IVoiceService {
	return &voiceService{
		chatService: chatService,
		bridge:      bridge,
		hub:         hub,
		logger:      log,
	}
}

func (s *voiceService) Transcript(ctx context.Context, subjectId, transcript string) error {
	return s.chatService.Send(ctx, subjectId, transcript, nil)
}

func (s *voiceService) ToggleMute() dto.VoiceStateResponse {
	s.bridge.ToggleMute()
	return s.State()
}

func (s *voiceService) State() dto.VoiceStateResponse {
	return dto.VoiceStateResponse{
		Enabled:  s.bridge.Enabled(),
		Muted:    s.bridge.Muted(),
		Speaking: s.bridge.Speaking(),
	}
}

func (s *voiceService) SetVoices(voices []speech.Voice) dto.SetVoicesResponse {
	s.bridge.SetVoices(voices)

	resp := dto.SetVoicesResponse{}
	if v, ok := speech.SelectBestVoice(voices); ok {
		resp.Selected = &v
	}
	return resp
}

type engineMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *voiceService) HandleEngineMessage(raw []byte) {
	var msg engineMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.logger.Warn("VoiceService", "Unreadable engine message", map[string]interface{}{"error": err.Error()})
		return
	}

	switch msg.Type {
	case "speech.event":
		var evt dto.SpeechEventRequest
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			s.logger.Warn("VoiceService", "Unreadable speech event", map[string]interface{}{"error": err.Error()})
			return
		}
		s.bridge.HandleEvent(evt.UtteranceId, evt.Event)
	case "speech.voices":
		var req dto.SetVoicesRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			s.logger.Warn("VoiceService", "Unreadable voice inventory", map[string]interface{}{"error": err.Error()})
			return
		}
		s.bridge.SetVoices(req.Voices)
	case "speech.recognition_error":
		var req struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return
		}
		// Permission denial gets a dedicated, actionable message.
		if req.Error == "not-allowed" {
			s.hub.Broadcast("speech.notice", map[string]interface{}{
				"message": constant.MicPermissionDeniedMessage,
			})
			return
		}
		s.logger.Warn("VoiceService", "Speech recognition error", map[string]interface{}{"error": req.Error})
	}
}
