// Package extraction is the document-to-text gateway. PDF bytes go to an
// external sidecar service; plain text is read inline. Anything else is
// rejected before it can reach the store.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const MaxFileSize = 10 * 1024 * 1024 // 10MB, re-validated here beyond the UI

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, only PDF and TXT are accepted")
	ErrFileTooLarge      = fmt.Errorf("file exceeds the %dMB limit", MaxFileSize/(1024*1024))
	ErrEmptyFile         = errors.New("no file content provided")
)

// Extractor turns raw file bytes into plain text or fails.
type Extractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// Gateway dispatches by file extension to the matching extractor.
type Gateway struct {
	pdf  Extractor
	text Extractor
}

func NewGateway(pdf, text Extractor) *Gateway {
	return &Gateway{pdf: pdf, text: text}
}

func (g *Gateway) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return g.pdf.Extract(ctx, data, filename)
	case ".txt":
		return g.text.Extract(ctx, data, filename)
	default:
		return "", ErrUnsupportedFormat
	}
}
