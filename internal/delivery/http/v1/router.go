package v1

import (
	"net/http"
	"time"

	"ocs-recruitment-backend/config"
	"ocs-recruitment-backend/internal/delivery/http/middleware"
	"ocs-recruitment-backend/internal/delivery/http/response"
	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/apperror"
	"ocs-recruitment-backend/pkg/security"
	"ocs-recruitment-backend/pkg/token"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ProfileUC     domain.ProfileUsecase
	ApplicationUC domain.ApplicationUsecase
	Tokens        *token.Provider
	LoginTracker  *security.LoginTracker
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	isProduction := gin.Mode() == gin.ReleaseMode
	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, isProduction)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	loginLimiter := middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(deps.Config.RateLimitLoginThreshold, window))

	// Protected routes, split by role requirement. Every group behind
	// AuthMiddleware carries a verified identity; the role groups narrow it.
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	students := protected.Group("")
	students.Use(middleware.RequireRoles(domain.RoleStudent))

	recruiting := protected.Group("")
	recruiting.Use(middleware.RequireRoles(domain.RoleRecruiter, domain.RoleAdmin))

	NewAuthHandler(v1, protected, deps.AuthUC, deps.LoginTracker, loginLimiter)
	NewProfileHandler(protected, recruiting, deps.ProfileUC)
	NewApplicationHandler(protected, students, recruiting, deps.ApplicationUC)

	return r
}

// callerIdentity rebuilds the acting identity from the context values set by
// the auth guard.
func callerIdentity(c *gin.Context) *domain.Identity {
	return &domain.Identity{
		ID:   c.GetString(string(domain.KeyIdentityID)),
		Role: c.GetString(string(domain.KeyIdentityRole)),
	}
}

// missingFields normalizes gin binding failures into the MissingFields
// client error.
func missingFields(err error) *apperror.AppError {
	return apperror.BadRequest("Missing or invalid fields: " + err.Error())
}
