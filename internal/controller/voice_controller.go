package controller

import (
	"github.com/gofiber/fiber/v2"

	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/pkg/serverutils"
	"study-copilot-be/internal/service"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	Transcript(ctx *fiber.Ctx) error
	ToggleMute(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	SetVoices(ctx *fiber.Ctx) error
}

type voiceController struct {
	voiceService service.IVoiceService
}

func NewVoiceController(voiceService service.IVoiceService) IVoiceController {
	return &voiceController{
		voiceService: voiceService,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice/v1")
	h.Post("transcript", c.Transcript)
	h.Post("mute", c.ToggleMute)
	h.Get("state", c.State)
	h.Post("voices", c.SetVoices)
}

// Transcript accepts recognized speech and runs it through the chat path.
// The reply streams over the websocket, so the response carries only the
// accepted state.
func (c *voiceController) Transcript(ctx *fiber.Ctx) error {
	var req dto.TranscriptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.voiceService.Transcript(ctx.Context(), req.SubjectId, req.Transcript); err != nil {
		return mapChatError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success process transcript", nil))
}

func (c *voiceController) ToggleMute(ctx *fiber.Ctx) error {
	res := c.voiceService.ToggleMute()
	return ctx.JSON(serverutils.SuccessResponse("Success toggle mute", res))
}

func (c *voiceController) State(ctx *fiber.Ctx) error {
	res := c.voiceService.State()
	return ctx.JSON(serverutils.SuccessResponse("Success get voice state", res))
}

func (c *voiceController) SetVoices(ctx *fiber.Ctx) error {
	var req dto.SetVoicesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.voiceService.SetVoices(req.Voices)
	return ctx.JSON(serverutils.SuccessResponse("Success set voices", res))
}
