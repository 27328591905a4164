package extraction

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

func TestGatewayDispatch(t *testing.T) {
	gw := NewGateway(
		&stubExtractor{text: "pdf text"},
		&stubExtractor{text: "txt text"},
	)
	ctx := context.Background()

	got, err := gw.Extract(ctx, []byte("%PDF"), "notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf text", got)

	got, err = gw.Extract(ctx, []byte("hello"), "Notes.TXT")
	require.NoError(t, err)
	assert.Equal(t, "txt text", got)
}

func TestGatewayRejectsUnsupported(t *testing.T) {
	gw := NewGateway(&stubExtractor{}, &stubExtractor{})

	_, err := gw.Extract(context.Background(), []byte("x"), "image.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = gw.Extract(context.Background(), []byte("x"), "noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGatewayRejectsOversized(t *testing.T) {
	gw := NewGateway(&stubExtractor{}, &stubExtractor{})

	big := make([]byte, MaxFileSize+1)
	_, err := gw.Extract(context.Background(), big, "big.txt")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestGatewayRejectsEmpty(t *testing.T) {
	gw := NewGateway(&stubExtractor{}, &stubExtractor{})

	_, err := gw.Extract(context.Background(), nil, "empty.txt")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestGatewayPropagatesExtractorError(t *testing.T) {
	boom := errors.New("corrupt file")
	gw := NewGateway(&stubExtractor{err: boom}, &stubExtractor{})

	_, err := gw.Extract(context.Background(), []byte("%PDF"), "bad.pdf")
	assert.ErrorIs(t, err, boom)
}

func TestTextExtractor(t *testing.T) {
	e := NewTextExtractor()

	got, err := e.Extract(context.Background(), []byte("plain notes"), "n.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain notes", got)

	_, err = e.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, "n.txt")
	assert.ErrorIs(t, err, ErrNotText)
}

func TestPDFServiceExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parse", r.URL.Path)
		assert.Equal(t, "notes.pdf", r.Header.Get("X-Filename"))
		w.Write([]byte(`{"success":true,"text":"extracted"}`))
	}))
	defer srv.Close()

	e := NewPDFServiceExtractor(srv.URL)
	got, err := e.Extract(context.Background(), []byte("%PDF-1.4"), "notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, "extracted", got)
}

func TestPDFServiceExtractorFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"corrupt xref table"}`))
	}))
	defer srv.Close()

	e := NewPDFServiceExtractor(srv.URL)
	_, err := e.Extract(context.Background(), bytes.Repeat([]byte("x"), 16), "bad.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt xref table")
}
