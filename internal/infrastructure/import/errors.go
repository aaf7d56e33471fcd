package csvimport

import (
	"errors"
	"fmt"
)

// Import error codes
const (
	ErrCodeImportUnknown           = "ERR_IMPORT_UNKNOWN"
	ErrCodeImportInvalidFile       = "ERR_IMPORT_INVALID_FILE"
	ErrCodeImportEmptyFile         = "ERR_IMPORT_EMPTY_FILE"
	ErrCodeImportFileTooLarge      = "ERR_IMPORT_FILE_TOO_LARGE"
	ErrCodeImportInvalidEncoding   = "ERR_IMPORT_INVALID_ENCODING"
	ErrCodeImportUnsupportedFormat = "ERR_IMPORT_UNSUPPORTED_FORMAT"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the spreadsheet has no non-empty rows
	ErrEmptyFile = errors.New("spreadsheet is empty")

	// ErrInvalidFile is returned when the file cannot be parsed at all
	ErrInvalidFile = errors.New("invalid spreadsheet file")

	// ErrInvalidEncoding is returned when a CSV is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrUnsupportedFormat is returned for extensions the reader does not handle
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoSheets is returned when an Excel workbook contains no sheets
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrFileTooLarge is returned when the upload exceeds MaxFileSize
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
)

// SkippedRow records one data row the import discarded because no usable
// name could be resolved. Diagnostic only; skipped rows are not errors.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (s SkippedRow) String() string {
	return fmt.Sprintf("row %d: %s", s.Row, s.Reason)
}

// SkipLog collects skipped rows up to a cap so a pathological sheet cannot
// balloon the diagnostic payload.
type SkipLog struct {
	skipped    []SkippedRow
	maxEntries int
	totalCount int
}

// NewSkipLog creates a SkipLog with the given entry cap
func NewSkipLog(maxEntries int) *SkipLog {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &SkipLog{
		skipped:    make([]SkippedRow, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Add records a skipped row
func (l *SkipLog) Add(row int, reason string) {
	l.totalCount++
	if len(l.skipped) < l.maxEntries {
		l.skipped = append(l.skipped, SkippedRow{Row: row, Reason: reason})
	}
}

// Entries returns the collected skip records
func (l *SkipLog) Entries() []SkippedRow {
	return l.skipped
}

// TotalCount returns the number of skipped rows including uncollected ones
func (l *SkipLog) TotalCount() int {
	return l.totalCount
}

// Truncated reports whether entries were dropped beyond the cap
func (l *SkipLog) Truncated() bool {
	return l.totalCount > len(l.skipped)
}
