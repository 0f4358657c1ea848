package v1

import (
	"errors"
	"net/http"

	"ocs-recruitment-backend/internal/delivery/http/response"
	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/apperror"
	"ocs-recruitment-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC  domain.AuthUsecase
	tracker *security.LoginTracker
}

// NewAuthHandler registers authentication routes
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, tracker *security.LoginTracker, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, tracker: tracker}

	public.POST("/auth/login", loginLimiter, handler.Login)
	protected.GET("/users/me", handler.Me)
}

// LoginRequest is the login payload. CredentialDigest is the client-side
// SHA-256 hex digest of the secret; the server compares digests, it never
// sees the secret itself. This is deliberately not a password KDF.
type LoginRequest struct {
	IdentityID       string `json:"identity_id" binding:"required"`
	CredentialDigest string `json:"credential_digest" binding:"required"`
}

// Login godoc
// @Summary      Log in
// @Description  Verify credentials and issue a signed session token (1h lifetime, no refresh)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.LoginResult}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Missing identity ID or credential digest"))
		return
	}

	blocked, err := h.tracker.IsBlocked(c.Request.Context(), req.IdentityID, c.ClientIP())
	if err == nil && blocked {
		response.Error(c, http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", nil)
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.IdentityID, req.CredentialDigest)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			// Count the failure regardless of whether the identity exists;
			// the tracker must not leak existence either.
			h.tracker.RecordFailedAttempt(c.Request.Context(), req.IdentityID, c.ClientIP())
		}
		c.Error(err)
		return
	}

	h.tracker.ClearAttempts(c.Request.Context(), req.IdentityID, c.ClientIP())
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Me godoc
// @Summary      Current identity
// @Description  Return the identity record behind the presented token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Identity}
// @Failure      401  {object}  response.Response
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	caller := callerIdentity(c)

	identity, err := h.authUC.WhoAmI(c.Request.Context(), caller.ID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Identity retrieved", identity)
}
