// Package validation provides pre-parse checks for uploaded payloads.
package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// zipMagic is the signature of zip containers. An xlsx export renamed to
// .csv starts with these bytes and would only produce garbage rows.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// UploadValidator rejects payloads that cannot possibly be CSV exports
// before they reach the normalizer.
type UploadValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewUploadValidator creates a new upload validator. maxBytes of zero
// disables the per-file size check.
func NewUploadValidator(logger *slog.Logger, maxBytes int64) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// ValidateUpload checks one named payload. The filename extension must be
// .csv or .txt; the content must be non-empty, under the size limit and not
// a zip container.
func (v *UploadValidator) ValidateUpload(name string, data []byte) error {
	if len(data) == 0 {
		v.logger.Warn("Rejected empty upload",
			slog.String("file", name))
		return fmt.Errorf("file %s is empty", name)
	}

	if v.maxBytes > 0 && int64(len(data)) > v.maxBytes {
		v.logger.Warn("Rejected oversized upload",
			slog.String("file", name),
			slog.Int("size", len(data)),
			slog.Int64("limit", v.maxBytes))
		return fmt.Errorf("file %s exceeds the size limit of %d bytes", name, v.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".csv" && ext != ".txt" {
		v.logger.Warn("Rejected upload with unsupported extension",
			slog.String("file", name),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a CSV file (extension: %s)", name, ext)
	}

	if bytes.HasPrefix(data, zipMagic) {
		v.logger.Warn("Rejected zip container uploaded as CSV",
			slog.String("file", name))
		return fmt.Errorf("file %s is a zip container, not CSV; export the sheet as CSV first", name)
	}

	return nil
}
