package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/factura/backend/internal/application/identity"
	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/infrastructure/auth"
	"github.com/factura/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles tenant account endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *appidentity.TenantService
	logoService   *appidentity.LogoService
	jwtService    *auth.JWTService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *appidentity.TenantService, logoService *appidentity.LogoService, jwtService *auth.JWTService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logoService:   logoService,
		jwtService:    jwtService,
	}
}

// RegisteredTenantResponse pairs the new tenant with its first access token
type RegisteredTenantResponse struct {
	Tenant *appidentity.TenantResponse `json:"tenant"`
	Token  *auth.IssuedToken           `json:"token,omitempty"`
}

// issueToken signs an access token for the tenant. The tenant is its own
// user in the single-owner model.
func (h *TenantHandler) issueToken(resp *appidentity.TenantResponse) *auth.IssuedToken {
	if h.jwtService == nil {
		return nil
	}
	plan, err := billing.ParsePlan(resp.Plan)
	if err != nil {
		plan = billing.PlanFree
	}
	token, err := h.jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: resp.ID,
		UserID:   resp.ID,
		Email:    resp.Email,
		Plan:     plan,
	})
	if err != nil {
		return nil
	}
	return token
}

// RegisterRoutes registers tenant routes. Registration is public; everything
// else requires an authenticated tenant.
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	{
		tenants.POST("/register", h.Register)
		tenants.GET("/me", h.Me)
		tenants.PUT("/me/plan", h.ChangePlan)
		tenants.PUT("/me/reminders", h.SetRemindersPaused)
	}

	upload := rg.Group("/upload")
	{
		upload.POST("/logo", h.UploadLogo)
	}
	rg.GET("/logo", h.GetLogo)
	rg.DELETE("/logo", h.RemoveLogo)
}

// Register creates a new tenant account on the free plan
func (h *TenantHandler) Register(c *gin.Context) {
	var req appidentity.RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tenantService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, RegisteredTenantResponse{Tenant: resp, Token: h.issueToken(resp)})
}

// Me returns the authenticated tenant
func (h *TenantHandler) Me(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.tenantService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePlan switches the tenant's plan; downgrades are refused while the
// client count exceeds the target plan's limit
func (h *TenantHandler) ChangePlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tenantService.ChangePlan(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	// The plan claim in the old token is now stale, so hand back a fresh one.
	h.Success(c, RegisteredTenantResponse{Tenant: resp, Token: h.issueToken(resp)})
}

// RemindersPausedRequest toggles automatic payment reminders
type RemindersPausedRequest struct {
	Paused *bool `json:"paused" binding:"required"`
}

// SetRemindersPaused pauses or resumes automatic payment reminders
func (h *TenantHandler) SetRemindersPaused(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RemindersPausedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tenantService.SetRemindersPaused(c.Request.Context(), tenantID, *req.Paused)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadLogo stores a tenant logo. PRO plan only; JPEG or PNG up to 5MB.
func (h *TenantHandler) UploadLogo(c *gin.Context) {
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

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.logoService.UploadLogo(c.Request.Context(), tenantID, plan, contentType, fileHeader.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetLogo returns a time-limited download URL for the tenant's logo
func (h *TenantHandler) GetLogo(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.logoService.GetLogoURL(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveLogo deletes the tenant's logo
func (h *TenantHandler) RemoveLogo(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.logoService.RemoveLogo(c.Request.Context(), tenantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
