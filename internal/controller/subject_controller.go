package controller

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"study-copilot-be/internal/pkg/serverutils"
	"study-copilot-be/internal/service"
	"study-copilot-be/pkg/extraction"
)

type ISubjectController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type subjectController struct {
	subjectService service.ISubjectService
}

func NewSubjectController(subjectService service.ISubjectService) ISubjectController {
	return &subjectController{
		subjectService: subjectService,
	}
}

func (c *subjectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subject/v1")
	h.Get("", c.List)
	h.Post(":id/files", c.Upload)
}

func (c *subjectController) List(ctx *fiber.Ctx) error {
	res := c.subjectService.List(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success list subjects", res))
}

func (c *subjectController) Upload(ctx *fiber.Ctx) error {
	subjectId := ctx.Params("id")

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field 'file' is required")
	}
	if fileHeader.Size > extraction.MaxFileSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, extraction.ErrFileTooLarge.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.subjectService.Upload(ctx.Context(), subjectId, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, extraction.ErrFileTooLarge):
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, extraction.ErrUnsupportedFormat),
			errors.Is(err, extraction.ErrEmptyFile),
			errors.Is(err, extraction.ErrNotText):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload file", res))
}
