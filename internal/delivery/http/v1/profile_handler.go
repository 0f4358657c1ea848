package v1

import (
	"net/http"

	"ocs-recruitment-backend/internal/delivery/http/response"
	"ocs-recruitment-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

// NewProfileHandler registers profile registry routes. Creation is limited
// to recruiters and admins by the roles guard in the router; listing is open
// to every authenticated role and scoped inside the usecase.
func NewProfileHandler(protected, recruiting *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	protected.GET("/profiles", handler.ListProfiles)
	recruiting.POST("/profiles", handler.CreateProfile)
}

// CreateProfileRequest is the request payload for creating a profile.
// OwnerID is honored for admins only; for recruiters the owner is always
// the caller.
type CreateProfileRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Designation string `json:"designation" binding:"required"`
	OwnerID     string `json:"owner_id"`
}

// CreateProfile godoc
// @Summary      Create a job profile
// @Description  Register a new job profile owned by a recruiter (Recruiter/Admin only)
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body      CreateProfileRequest  true  "Profile data"
// @Success      201   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /profiles [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	caller := callerIdentity(c)

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(missingFields(err))
		return
	}

	profile, err := h.profileUC.CreateProfile(c.Request.Context(), caller, domain.CreateProfileInput{
		CompanyName:   req.CompanyName,
		Designation:   req.Designation,
		OwnerOverride: req.OwnerID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created", profile)
}

// ListProfiles godoc
// @Summary      List job profiles
// @Description  Students and admins see all profiles; recruiters see only their own
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Failure      401  {object}  response.Response
// @Router       /profiles [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	caller := callerIdentity(c)

	profiles, err := h.profileUC.ListProfiles(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profiles retrieved", profiles)
}
