package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	importapp "github.com/factura/backend/internal/application/import"
	csvimport "github.com/factura/backend/internal/infrastructure/import"
	"github.com/factura/backend/internal/interfaces/http/middleware"
)

// ClientImportHandler handles spreadsheet client imports
type ClientImportHandler struct {
	BaseHandler
	importService *importapp.ClientImportService
}

// NewClientImportHandler creates a new ClientImportHandler
func NewClientImportHandler(importService *importapp.ClientImportService) *ClientImportHandler {
	return &ClientImportHandler{importService: importService}
}

// RegisterRoutes registers import routes
func (h *ClientImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload/clients", h.Upload)
}

// acceptedExtensions are the upload formats the import pipeline handles
var acceptedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// Upload accepts one spreadsheet as multipart form data under the "file"
// field and imports its rows as clients. The whole file is processed in the
// request; quota rejection imports nothing.
func (h *ClientImportHandler) Upload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	plan := middleware.GetJWTPlan(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload under the 'file' field")
		return
	}
	if fileHeader.Size > csvimport.MaxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge,
			csvimport.ErrCodeImportFileTooLarge, "File exceeds the 10MB upload limit")
		return
	}

	filename := fileHeader.Filename
	dot := strings.LastIndex(filename, ".")
	if dot < 0 || !acceptedExtensions[strings.ToLower(filename[dot:])] {
		h.Error(c, http.StatusBadRequest,
			csvimport.ErrCodeImportUnsupportedFormat, "Only .csv, .xlsx and .xls files are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.importService.ImportClients(c.Request.Context(), tenantID, plan, filename, file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	h.Success(c, result)
}

// handleImportError maps parser sentinel errors to import error codes
// before falling back to the generic error handler
func (h *ClientImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, csvimport.ErrUnsupportedFormat):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeImportUnsupportedFormat, err.Error())
	case errors.Is(err, csvimport.ErrEmptyFile), errors.Is(err, csvimport.ErrNoSheets):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeImportEmptyFile, "Spreadsheet contains no data rows")
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeImportInvalidEncoding, "File must be UTF-8 encoded")
	case errors.Is(err, csvimport.ErrInvalidFile):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeImportInvalidFile, "File could not be parsed")
	case errors.Is(err, csvimport.ErrFileTooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, csvimport.ErrCodeImportFileTooLarge, err.Error())
	default:
		h.HandleError(c, err)
	}
}
