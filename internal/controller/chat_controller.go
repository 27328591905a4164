package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"study-copilot-be/internal/constant"
	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/pkg/serverutils"
	"study-copilot-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	History(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Quiz(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("history", c.History)
	h.Get("status", c.Status)
	h.Post("send", c.Send)
	h.Post("quiz", c.Quiz)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	res := c.chatService.History()
	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Status(ctx *fiber.Ctx) error {
	res := dto.ChatStatusResponse{Status: c.chatService.Status()}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat status", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Chat) == "" {
		return fiber.NewError(fiber.StatusBadRequest, service.ErrEmptyInput.Error())
	}
	return c.stream(ctx, req.SubjectId, req.Chat)
}

// Quiz streams a study guide through the regular chat path using a canned
// prompt.
func (c *chatController) Quiz(ctx *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	return c.stream(ctx, req.SubjectId, constant.QuizPrompt)
}

// stream runs one chat turn as an SSE response. Rejections detectable
// before any output (busy session, empty input) get regular HTTP
// statuses; failures after the stream opens become error events since
// the status line is already gone.
func (c *chatController) stream(ctx *fiber.Ctx, subjectId, chat string) error {
	if c.chatService.Status() == constant.ChatStatusSubmitted ||
		c.chatService.Status() == constant.ChatStatusStreaming {
		return fiber.NewError(fiber.StatusConflict, service.ErrChatBusy.Error())
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	reqCtx := ctx.Context()
	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		err := c.chatService.Send(reqCtx, subjectId, chat, func(chunk dto.StreamChunk) error {
			return writeSSE(w, "", chunk)
		})
		if err != nil {
			writeSSE(w, "error", fiber.Map{"message": err.Error()})
		}
	}))

	return nil
}

func writeSSE(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

// mapChatError translates chat failures for JSON (non-streaming) callers.
func mapChatError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrChatBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStreamTransport):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return err
}
