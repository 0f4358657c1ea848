package v1

import (
	"net/http"
	"strconv"

	"ocs-recruitment-backend/internal/delivery/http/response"
	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application lifecycle routes. The role
// guards on the groups decide who gets in; ownership and transition
// legality live in the usecase.
func NewApplicationHandler(protected, students, recruiting *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	protected.GET("/applications", handler.ListApplications)

	students.POST("/profiles/:code/apply", handler.Apply)
	students.POST("/applications/:code/accept", handler.Accept)
	students.POST("/applications/:code/decline", handler.Decline)

	recruiting.PATCH("/applications/:code/:candidateId/status", handler.ChangeStatus)
}

// ChangeStatusRequest is the payload for recruiter-driven transitions.
// Accepted is not bindable here: recruiters never accept on a candidate's
// behalf.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Selected NotSelected"`
}

// Apply godoc
// @Summary      Apply to a profile
// @Description  Create an application for the calling student (Student only)
// @Tags         applications
// @Produce      json
// @Param        code  path      int  true  "Profile code"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /profiles/{code}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	caller := callerIdentity(c)

	code, err := profileCodeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), caller, code)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ChangeStatus godoc
// @Summary      Change application status
// @Description  Move an application to Selected or NotSelected (owning Recruiter or Admin)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        code         path      int                  true  "Profile code"
// @Param        candidateId  path      string               true  "Candidate ID"
// @Param        body         body      ChangeStatusRequest  true  "Target status"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{code}/{candidateId}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) ChangeStatus(c *gin.Context) {
	caller := callerIdentity(c)

	code, err := profileCodeParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	candidateID := c.Param("candidateId")

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(missingFields(err))
		return
	}

	app, err := h.applicationUC.ChangeStatus(c.Request.Context(), caller, code, candidateID, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}

// Accept godoc
// @Summary      Accept an offer
// @Description  Accept the caller's Selected application (Student only)
// @Tags         applications
// @Produce      json
// @Param        code  path      int  true  "Profile code"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{code}/accept [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Accept(c *gin.Context) {
	caller := callerIdentity(c)

	code, err := profileCodeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.Accept(c.Request.Context(), caller, code)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer accepted", app)
}

// Decline godoc
// @Summary      Decline an offer
// @Description  Turn down the caller's Selected application (Student only)
// @Tags         applications
// @Produce      json
// @Param        code  path      int  true  "Profile code"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{code}/decline [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Decline(c *gin.Context) {
	caller := callerIdentity(c)

	code, err := profileCodeParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	app, err := h.applicationUC.Decline(c.Request.Context(), caller, code)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer declined", app)
}

// ListApplications godoc
// @Summary      List applications
// @Description  Role-scoped projection: students see their own, recruiters see applications on owned profiles, admins see all
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	caller := callerIdentity(c)

	applications, err := h.applicationUC.ListApplications(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

func profileCodeParam(c *gin.Context) (int64, error) {
	code, err := strconv.ParseInt(c.Param("code"), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("Invalid profile code")
	}
	return code, nil
}
