package identity

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/factura/backend/internal/application/billing"
	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/domain/identity"
	"github.com/factura/backend/internal/domain/shared"
)

// MaxLogoSize is the maximum accepted logo upload size (5MB)
const MaxLogoSize = 5 << 20

// logoDownloadExpiration is how long presigned logo URLs stay valid
const logoDownloadExpiration = 15 * time.Minute

// logoContentTypes maps accepted content types to storage key extensions
var logoContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// ObjectStorage is the port for binary object storage (logos)
type ObjectStorage interface {
	// Upload stores an object under the given key
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// DownloadURL returns a time-limited URL for fetching the object
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)

	// Delete removes the object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// LogoService handles tenant logo uploads. Uploading is gated to the PRO plan.
type LogoService struct {
	tenantRepo identity.TenantRepository
	quotaSvc   *appbilling.QuotaService
	storage    ObjectStorage
	logger     *zap.Logger
}

// NewLogoService creates a new LogoService
func NewLogoService(
	tenantRepo identity.TenantRepository,
	quotaSvc *appbilling.QuotaService,
	storage ObjectStorage,
	logger *zap.Logger,
) *LogoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogoService{
		tenantRepo: tenantRepo,
		quotaSvc:   quotaSvc,
		storage:    storage,
		logger:     logger,
	}
}

// LogoUploadResult describes a stored logo
type LogoUploadResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadLogo validates and stores a tenant logo, replacing any previous one.
func (s *LogoService) UploadLogo(ctx context.Context, tenantID uuid.UUID, plan billing.Plan, contentType string, size int64, body io.Reader) (*LogoUploadResult, error) {
	if err := s.quotaSvc.EnsureLogoUploadAllowed(plan); err != nil {
		return nil, err
	}

	ext, ok := logoContentTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("ERR_INVALID_LOGO_TYPE", "Logo must be a JPEG or PNG image")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("ERR_EMPTY_LOGO", "Logo file is empty")
	}
	if size > MaxLogoSize {
		return nil, shared.NewDomainError("ERR_LOGO_TOO_LARGE", "Logo cannot exceed 5MB")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("logos/%s.%s", tenantID, ext)
	if err := s.storage.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}

	// Remove the old object when the extension changed
	if tenant.LogoKey != "" && tenant.LogoKey != key {
		if err := s.storage.Delete(ctx, tenant.LogoKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				zap.String("tenant_id", tenantID.String()),
				zap.String("key", tenant.LogoKey),
				zap.Error(err),
			)
		}
	}

	tenant.SetLogoKey(key)
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.DownloadURL(ctx, key, logoDownloadExpiration)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant logo uploaded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key),
		zap.Int64("size", size),
	)

	return &LogoUploadResult{Key: key, URL: url, ExpiresAt: expiresAt}, nil
}

// GetLogoURL returns a time-limited URL for the tenant's logo
func (s *LogoService) GetLogoURL(ctx context.Context, tenantID uuid.UUID) (*LogoUploadResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.LogoKey == "" {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.DownloadURL(ctx, tenant.LogoKey, logoDownloadExpiration)
	if err != nil {
		return nil, err
	}
	return &LogoUploadResult{Key: tenant.LogoKey, URL: url, ExpiresAt: expiresAt}, nil
}

// RemoveLogo deletes the tenant's logo from storage and clears the key
func (s *LogoService) RemoveLogo(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.LogoKey == "" {
		return nil
	}

	if err := s.storage.Delete(ctx, tenant.LogoKey); err != nil {
		return fmt.Errorf("failed to delete logo: %w", err)
	}

	tenant.SetLogoKey("")
	return s.tenantRepo.Save(ctx, tenant)
}
