package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor cleans message text read from a mail host
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// SanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "�")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// Truncate cuts text to at most maxSize bytes on a rune boundary and appends
// a marker. A maxSize of zero or less disables truncation.
func (tp *TextProcessor) Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	cut := maxSize
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", cut),
		zap.Int("max_size", maxSize))

	return text[:cut] + "…"
}

// HeaderBlock returns the raw header section of an RFC 5322 message, without
// the blank line that ends it. Messages without a body are all header.
func (tp *TextProcessor) HeaderBlock(raw []byte) string {
	s := string(raw)
	end := len(s)
	if i := strings.Index(s, "\r\n\r\n"); i >= 0 {
		end = i + 2
	}
	if i := strings.Index(s, "\n\n"); i >= 0 && i+1 < end {
		end = i + 1
	}
	return tp.SanitizeUTF8(s[:end])
}
