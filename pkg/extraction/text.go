package extraction

import (
	"context"
	"errors"
	"unicode/utf8"
)

var ErrNotText = errors.New("file is not valid text")

// TextExtractor handles .txt uploads inline, no external call needed.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(_ context.Context, data []byte, _ string) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrNotText
	}
	return string(data), nil
}
