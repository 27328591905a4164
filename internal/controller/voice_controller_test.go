package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/pkg/serverutils"
	"study-copilot-be/internal/service"
	"study-copilot-be/pkg/speech"
)

type stubVoiceService struct {
	state         dto.VoiceStateResponse
	transcriptErr error
}

func (s *stubVoiceService) Transcript(ctx context.Context, subjectId, transcript string) error {
	return s.transcriptErr
}
func (s *stubVoiceService) ToggleMute() dto.VoiceStateResponse { return s.state }
func (s *stubVoiceService) State() dto.VoiceStateResponse      { return s.state }
func (s *stubVoiceService) SetVoices(voices []speech.Voice) dto.SetVoicesResponse {
	if v, ok := speech.SelectBestVoice(voices); ok {
		return dto.SetVoicesResponse{Selected: &v}
	}
	return dto.SetVoicesResponse{}
}
func (s *stubVoiceService) HandleEngineMessage(raw []byte) {}

func newVoiceTestApp(svc service.IVoiceService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewVoiceController(svc).RegisterRoutes(api)
	return app
}

func TestTranscriptMapsTransportFailure(t *testing.T) {
	svc := &stubVoiceService{transcriptErr: service.ErrStreamTransport}
	app := newVoiceTestApp(svc)

	req := httptest.NewRequest("POST", "/api/voice/v1/transcript", strings.NewReader(`{"subject_id":"physics","transcript":"what is inertia"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestTranscriptMapsBusySession(t *testing.T) {
	svc := &stubVoiceService{transcriptErr: service.ErrChatBusy}
	app := newVoiceTestApp(svc)

	req := httptest.NewRequest("POST", "/api/voice/v1/transcript", strings.NewReader(`{"subject_id":"physics","transcript":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestTranscriptRequiresFields(t *testing.T) {
	app := newVoiceTestApp(&stubVoiceService{})

	req := httptest.NewRequest("POST", "/api/voice/v1/transcript", strings.NewReader(`{"subject_id":"physics"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestVoiceStateEndpoint(t *testing.T) {
	svc := &stubVoiceService{state: dto.VoiceStateResponse{Enabled: true, Muted: true}}
	app := newVoiceTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/voice/v1/state", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data dto.VoiceStateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.True(t, envelope.Data.Enabled)
	assert.True(t, envelope.Data.Muted)
}

func TestSetVoicesReturnsSelection(t *testing.T) {
	app := newVoiceTestApp(&stubVoiceService{})

	payload := `{"voices":[{"name":"Samantha","lang":"en-US"},{"name":"Google US English","lang":"en-US"}]}`
	req := httptest.NewRequest("POST", "/api/voice/v1/voices", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data dto.SetVoicesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.NotNil(t, envelope.Data.Selected)
	assert.Equal(t, "Google US English", envelope.Data.Selected.Name)
}
