package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// truncationMarker is appended to captions cut at the size limit
const truncationMarker = " […]"

// TextProcessor cleans up caption text read from image metadata
type TextProcessor struct {
	logger  *zap.Logger
	maxSize int
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(maxSize int, logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger:  logger,
		maxSize: maxSize,
	}
}

// TruncateText safely truncates text to the specified maximum size in bytes
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Caption truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return strings.TrimRightFunc(truncated, isSpace) + truncationMarker
}

// SanitizeUTF8 drops invalid byte sequences
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Caption sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// ProcessText normalizes a raw caption. EXIF and IPTC fields are often
// padded with NUL bytes and may use decomposed umlauts.
func (tp *TextProcessor) ProcessText(text string) string {
	cleaned := tp.SanitizeUTF8(text)
	cleaned = strings.TrimFunc(cleaned, func(r rune) bool {
		return r == 0 || isSpace(r)
	})
	cleaned = norm.NFC.String(cleaned)

	return tp.TruncateText(cleaned, tp.maxSize)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0x85, 0xA0:
		return true
	}
	return false
}
