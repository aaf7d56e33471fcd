package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/factura/backend/internal/application/billing"
	importapp "github.com/factura/backend/internal/application/import"
	"github.com/factura/backend/internal/domain/partner"
	"github.com/factura/backend/internal/domain/shared"
	"github.com/factura/backend/internal/interfaces/http/dto"
	"github.com/factura/backend/internal/interfaces/http/middleware"
)

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) Save(ctx context.Context, client *partner.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *mockClientRepo) SaveBatch(ctx context.Context, clients []*partner.Client) error {
	return m.Called(ctx, clients).Error(0)
}

func (m *mockClientRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *mockClientRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *mockClientRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClientRepo) CountAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClientRepo) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockClientRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// newImportEngine builds an engine with JWT context pre-populated, the way
// the auth middleware would for a FREE plan tenant.
func newImportEngine(repo partner.ClientRepository, tenantID uuid.UUID) *gin.Engine {
	logger := zap.NewNop()
	svc := importapp.NewClientImportService(repo, appbilling.NewQuotaService(repo, logger), logger)
	h := NewClientImportHandler(svc)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, tenantID.String())
		c.Set(middleware.JWTPlanKey, "FREE")
	})
	h.RegisterRoutes(engine.Group("/"))
	return engine
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postUpload(engine *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload/clients", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(w, req)
	return w
}

func TestClientImportHandler_CSVHappyPath(t *testing.T) {
	tenantID := uuid.New()
	repo := new(mockClientRepo)
	repo.On("CountForTenant", mock.Anything, tenantID).Return(int64(0), nil)
	repo.On("SaveBatch", mock.Anything, mock.MatchedBy(func(clients []*partner.Client) bool {
		return len(clients) == 2
	})).Return(nil)

	engine := newImportEngine(repo, tenantID)
	csv := []byte("nume,email\nPopescu Construct SRL,office@popescu.ro\nMaria Ionescu,maria@example.com\n")
	body, contentType := multipartUpload(t, "clienti.csv", csv)

	w := postUpload(engine, body, contentType)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload, _ := json.Marshal(resp.Data)
	var result importapp.ClientImportResult
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.ImportedRows)
	assert.Equal(t, 0, result.SkippedRows)
	repo.AssertExpectations(t)
}

func TestClientImportHandler_QuotaExceededImportsNothing(t *testing.T) {
	tenantID := uuid.New()
	repo := new(mockClientRepo)
	// FREE plan allows 3; two existing plus two candidates is over.
	repo.On("CountForTenant", mock.Anything, tenantID).Return(int64(2), nil)

	engine := newImportEngine(repo, tenantID)
	csv := []byte("name,email\nAcme SRL,a@acme.ro\nBeta SA,b@beta.ro\n")
	body, contentType := multipartUpload(t, "clients.csv", csv)

	w := postUpload(engine, body, contentType)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeQuotaExceeded, resp.Error.Code)
	repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestClientImportHandler_UnsupportedExtension(t *testing.T) {
	engine := newImportEngine(new(mockClientRepo), uuid.New())
	body, contentType := multipartUpload(t, "clients.pdf", []byte("%PDF-1.4"))

	w := postUpload(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_IMPORT_UNSUPPORTED_FORMAT", resp.Error.Code)
}

func TestClientImportHandler_FilenameWithoutExtension(t *testing.T) {
	engine := newImportEngine(new(mockClientRepo), uuid.New())
	body, contentType := multipartUpload(t, "clients", []byte("name\nAcme SRL\n"))

	w := postUpload(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientImportHandler_MissingFileField(t *testing.T) {
	engine := newImportEngine(new(mockClientRepo), uuid.New())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	w := postUpload(engine, body, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientImportHandler_EmptyCSV(t *testing.T) {
	tenantID := uuid.New()
	repo := new(mockClientRepo)
	engine := newImportEngine(repo, tenantID)

	body, contentType := multipartUpload(t, "empty.csv", []byte(""))
	w := postUpload(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERR_IMPORT_EMPTY_FILE", resp.Error.Code)
}

func TestClientImportHandler_RequiresAuth(t *testing.T) {
	repo := new(mockClientRepo)
	svc := importapp.NewClientImportService(repo, appbilling.NewQuotaService(repo, zap.NewNop()), zap.NewNop())
	h := NewClientImportHandler(svc)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/"))

	body, contentType := multipartUpload(t, "clients.csv", []byte("name\nAcme\n"))
	w := postUpload(engine, body, contentType)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
