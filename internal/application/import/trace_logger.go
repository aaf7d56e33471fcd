package importapp

import (
	"go.uber.org/zap"

	"github.com/factura/backend/internal/domain/importing"
)

// traceRowLimit caps how many resolved rows the trace logs per import
const traceRowLimit = 5

// TraceLogger is the default import observer. It writes the pipeline's
// diagnostic trace to the structured log instead of a side-channel file.
type TraceLogger struct {
	logger *zap.Logger
	logged int
}

// NewTraceLogger creates a TraceLogger
func NewTraceLogger(logger *zap.Logger) *TraceLogger {
	return &TraceLogger{logger: logger}
}

// HeaderRowDetected logs where the header row was found
func (t *TraceLogger) HeaderRowDetected(index int, headers []string) {
	t.logged = 0
	t.logger.Debug("import header row detected",
		zap.Int("row", index),
		zap.Strings("headers", headers))
}

// ColumnsMapped logs the column mapping decisions
func (t *TraceLogger) ColumnsMapped(mapping importing.ColumnMapping) {
	fields := make([]zap.Field, 0, len(mapping.Columns)+1)
	for field, header := range mapping.Columns {
		fields = append(fields, zap.String(string(field), header))
	}
	if len(mapping.Ambiguous) > 0 {
		ambiguous := make(map[string][]string, len(mapping.Ambiguous))
		for field, headers := range mapping.Ambiguous {
			ambiguous[string(field)] = headers
		}
		fields = append(fields, zap.Any("ambiguous", ambiguous))
	}
	t.logger.Debug("import columns mapped", fields...)
}

// RowResolved logs the first few resolved rows
func (t *TraceLogger) RowResolved(index int, record importing.ResolvedClient) {
	if t.logged >= traceRowLimit {
		return
	}
	t.logged++
	t.logger.Debug("import row resolved",
		zap.Int("row", index),
		zap.String("name", record.Name),
		zap.String("contact_person", record.ContactPerson))
}

// RowSkipped logs a row discarded for lack of a usable name
func (t *TraceLogger) RowSkipped(index int) {
	t.logger.Debug("import row skipped", zap.Int("row", index))
}
