package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-copilot-be/pkg/extraction"
)

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newTestSubjectService(pdfText string, pdfErr error) (ISubjectService, *subjectService) {
	subjects := seedSubjects()
	gateway := extraction.NewGateway(
		&stubExtractor{text: pdfText, err: pdfErr},
		extraction.NewTextExtractor(),
	)
	svc := NewSubjectService(subjects, gateway, noopPublisher{}, nil, nopLogger{})
	return svc, svc.(*subjectService)
}

func TestUploadAppendsExtractedText(t *testing.T) {
	svc, impl := newTestSubjectService("extracted pdf text", nil)

	resp, err := svc.Upload(context.Background(), "physics", "lecture.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "physics", resp.SubjectId)
	assert.Equal(t, "lecture.pdf", resp.FileName)
	assert.Equal(t, len("extracted pdf text"), resp.Chars)

	subject, found := impl.subjects.Get("physics")
	require.True(t, found)
	require.Len(t, subject.Files, 1)
	assert.Equal(t, "extracted pdf text", subject.Files[0].Content)
}

func TestUploadUnknownSubject(t *testing.T) {
	svc, _ := newTestSubjectService("text", nil)

	_, err := svc.Upload(context.Background(), "biology", "notes.txt", []byte("cells"))
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestUploadExtractionFailureStoresNothing(t *testing.T) {
	svc, impl := newTestSubjectService("", errors.New("parser crashed"))

	_, err := svc.Upload(context.Background(), "physics", "lecture.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)

	subject, _ := impl.subjects.Get("physics")
	assert.Empty(t, subject.Files)
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	svc, impl := newTestSubjectService("text", nil)

	_, err := svc.Upload(context.Background(), "physics", "slides.pptx", []byte("data"))
	assert.ErrorIs(t, err, extraction.ErrUnsupportedFormat)

	subject, _ := impl.subjects.Get("physics")
	assert.Empty(t, subject.Files)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _ := newTestSubjectService("text", nil)

	big := make([]byte, extraction.MaxFileSize+1)
	_, err := svc.Upload(context.Background(), "physics", "huge.txt", big)
	assert.ErrorIs(t, err, extraction.ErrFileTooLarge)
}

func TestListReturnsSeedOrder(t *testing.T) {
	svc, _ := newTestSubjectService("text", nil)

	subjects := svc.List(context.Background())
	require.Len(t, subjects, 3)
	assert.Equal(t, "physics", subjects[0].Id)
	assert.Equal(t, "chemistry", subjects[1].Id)
	assert.Equal(t, "math", subjects[2].Id)
}
