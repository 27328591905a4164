package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/pkg/serverutils"
	"study-copilot-be/internal/service"
	"study-copilot-be/pkg/extraction"
)

type stubSubjectService struct {
	subjects  []dto.SubjectResponse
	uploadErr error
}

func (s *stubSubjectService) List(ctx context.Context) []dto.SubjectResponse { return s.subjects }
func (s *stubSubjectService) Upload(ctx context.Context, subjectId, filename string, data []byte) (*dto.UploadFileResponse, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return &dto.UploadFileResponse{SubjectId: subjectId, FileId: "f1", FileName: filename, Chars: len(data)}, nil
}

func newSubjectTestApp(svc service.ISubjectService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewSubjectController(svc).RegisterRoutes(api)
	return app
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestListSubjectsEndpoint(t *testing.T) {
	svc := &stubSubjectService{subjects: []dto.SubjectResponse{
		{Id: "physics", Name: "Physics", Files: []dto.SubjectFileResponse{}},
	}}
	app := newSubjectTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/subject/v1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data []dto.SubjectResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "physics", envelope.Data[0].Id)
}

func TestUploadEndpoint(t *testing.T) {
	app := newSubjectTestApp(&stubSubjectService{})

	buf, contentType := multipartBody(t, "notes.txt", []byte("F=ma"))
	req := httptest.NewRequest("POST", "/api/subject/v1/physics/files", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data dto.UploadFileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "notes.txt", envelope.Data.FileName)
}

func TestUploadWithoutFileField(t *testing.T) {
	app := newSubjectTestApp(&stubSubjectService{})

	req := httptest.NewRequest("POST", "/api/subject/v1/physics/files", bytes.NewReader(nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadUnsupportedFormatStatus(t *testing.T) {
	app := newSubjectTestApp(&stubSubjectService{uploadErr: extraction.ErrUnsupportedFormat})

	buf, contentType := multipartBody(t, "slides.pptx", []byte("data"))
	req := httptest.NewRequest("POST", "/api/subject/v1/physics/files", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUploadUnknownSubjectStatus(t *testing.T) {
	app := newSubjectTestApp(&stubSubjectService{uploadErr: service.ErrSubjectNotFound})

	buf, contentType := multipartBody(t, "notes.txt", []byte("cells"))
	req := httptest.NewRequest("POST", "/api/subject/v1/biology/files", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
