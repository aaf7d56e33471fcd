package importapp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/factura/backend/internal/application/billing"
	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/domain/importing"
	"github.com/factura/backend/internal/domain/partner"
	csvimport "github.com/factura/backend/internal/infrastructure/import"
)

// ClientImportResult reports what one spreadsheet import did
type ClientImportResult struct {
	TotalRows    int                    `json:"total_rows"`
	ImportedRows int                    `json:"imported_rows"`
	SkippedRows  int                    `json:"skipped_rows"`
	MappedFields []string               `json:"mapped_fields"`
	HeaderRow    int                    `json:"header_row"`
	Ambiguous    map[string][]string    `json:"ambiguous_columns,omitempty"`
	Skipped      []csvimport.SkippedRow `json:"skipped,omitempty"`
	IsTruncated  bool                   `json:"is_truncated,omitempty"`
}

// ClientImportService turns an uploaded spreadsheet into client records.
// Processing is synchronous: one request reads, classifies and persists the
// whole file before responding.
type ClientImportService struct {
	clientRepo partner.ClientRepository
	quotaSvc   *appbilling.QuotaService
	mapper     importing.ColumnMapper
	resolver   importing.NameResolver
	observer   importing.Observer
	logger     *zap.Logger
}

// NewClientImportService creates a new ClientImportService
func NewClientImportService(
	clientRepo partner.ClientRepository,
	quotaSvc *appbilling.QuotaService,
	logger *zap.Logger,
) *ClientImportService {
	scorer := importing.NewCompanyScorer()
	return &ClientImportService{
		clientRepo: clientRepo,
		quotaSvc:   quotaSvc,
		mapper:     importing.NewColumnMapper(importing.NewDictionary(), scorer),
		resolver:   importing.NewNameResolver(scorer),
		observer:   NewTraceLogger(logger),
		logger:     logger,
	}
}

// WithObserver replaces the import trace observer
func (s *ClientImportService) WithObserver(observer importing.Observer) *ClientImportService {
	s.observer = observer
	return s
}

// ImportClients runs the full pipeline for one uploaded file: parse, detect
// the header row, map columns, classify every data row, enforce the plan
// quota against the candidate total, then batch-insert. Quota rejection is
// all-or-nothing; rows without a usable name are skipped silently.
func (s *ClientImportService) ImportClients(
	ctx context.Context,
	tenantID uuid.UUID,
	plan billing.Plan,
	filename string,
	file io.Reader,
) (*ClientImportResult, error) {
	rows, err := csvimport.ReadWorkbook(filename, file)
	if err != nil {
		return nil, err
	}

	headerRow := importing.DetectHeaderRow(rows)
	headers := rows[headerRow]
	dataRows := rows[headerRow+1:]
	s.observer.HeaderRowDetected(headerRow, headers)

	mapping := s.mapper.MapColumns(headers, dataRows)
	s.observer.ColumnsMapped(mapping)
	_, hasCompanyColumn := mapping.Header(importing.FieldCompanyName)

	headerIndex := indexHeaders(headers)

	var candidates []*partner.Client
	skipLog := csvimport.NewSkipLog(100)
	for i, row := range dataRows {
		// 1-based data row position below the header, for diagnostics
		rowNumber := headerRow + i + 2

		if isEmptyRow(row) {
			continue
		}

		extracted := extractRow(mapping, headerIndex, row)
		raw := rawRow(headers, row)

		record, ok := s.resolver.Resolve(extracted, raw, hasCompanyColumn)
		if !ok {
			skipLog.Add(rowNumber, "no usable name")
			s.observer.RowSkipped(rowNumber)
			continue
		}

		client, err := partner.NewImportedClient(tenantID, partner.ImportedClientData{
			Name:          record.Name,
			ContactPerson: record.ContactPerson,
			Email:         record.Email,
			Phone:         record.Phone,
			CUI:           record.CUI,
			RegCom:        record.RegCom,
			Address:       record.Address,
			City:          record.City,
			County:        record.County,
			Country:       record.Country,
			ZipCode:       record.ZipCode,
		})
		if err != nil {
			skipLog.Add(rowNumber, err.Error())
			s.observer.RowSkipped(rowNumber)
			continue
		}

		s.observer.RowResolved(rowNumber, record)
		candidates = append(candidates, client)
	}

	if err := s.quotaSvc.CheckClientQuota(ctx, tenantID, plan, int64(len(candidates))); err != nil {
		return nil, err
	}

	if len(candidates) > 0 {
		if err := s.clientRepo.SaveBatch(ctx, candidates); err != nil {
			return nil, fmt.Errorf("batch insert clients: %w", err)
		}
	}

	result := &ClientImportResult{
		TotalRows:    len(dataRows),
		ImportedRows: len(candidates),
		SkippedRows:  len(dataRows) - len(candidates),
		MappedFields: fieldNames(mapping.MappedFields()),
		HeaderRow:    headerRow,
		Skipped:      skipLog.Entries(),
		IsTruncated:  skipLog.Truncated(),
	}
	if len(mapping.Ambiguous) > 0 {
		result.Ambiguous = make(map[string][]string, len(mapping.Ambiguous))
		for field, headers := range mapping.Ambiguous {
			result.Ambiguous[string(field)] = headers
		}
	}

	s.logger.Info("client import finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported_rows", result.ImportedRows),
		zap.Int("skipped_rows", result.SkippedRows))

	return result, nil
}

// indexHeaders maps each header to its first column index
func indexHeaders(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, header := range headers {
		if _, ok := index[header]; !ok {
			index[header] = i
		}
	}
	return index
}

// extractRow looks up each mapped field's column in the data row
func extractRow(mapping importing.ColumnMapping, headerIndex map[string]int, row []string) importing.ExtractedRow {
	extracted := make(importing.ExtractedRow, len(mapping.Columns))
	for field, header := range mapping.Columns {
		col, ok := headerIndex[header]
		if !ok || col >= len(row) {
			continue
		}
		extracted[field] = row[col]
	}
	return extracted
}

// rawRow rebuilds the row keyed by raw header for the company-key rescue
func rawRow(headers []string, row []string) importing.RawRow {
	raw := make(importing.RawRow, len(headers))
	for i, header := range headers {
		if header == "" || i >= len(row) {
			continue
		}
		if _, ok := raw[header]; !ok {
			raw[header] = row[i]
		}
	}
	return raw
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func fieldNames(fields []importing.CanonicalField) []string {
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = string(field)
	}
	return names
}
