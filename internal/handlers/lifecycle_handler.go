package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
)

// LifecycleHandler serves role assignment and profile completion. Every
// successful call answers with a freshly issued token.
type LifecycleHandler struct {
	BaseHandler
	roles    services.RoleService
	profiles services.ProfileService
	session  *AuthMiddleware
}

func NewLifecycleHandler(roles services.RoleService, profiles services.ProfileService, session *AuthMiddleware, logger utils.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		BaseHandler: NewBaseHandler(logger),
		roles:       roles,
		profiles:    profiles,
		session:     session,
	}
}

// AssignRole redeems a role code
// @Summary Assign role
// @Description Classify a role code and move a pending user onto teacher, student or admin
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param request body services.AssignRoleRequest true "Role code"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse "Invalid code, role already assigned or duplicate student code"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /roles/assign-role [post]
func (h *LifecycleHandler) AssignRole(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.AssignRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, err := h.roles.AssignRole(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Role assigned")
	h.session.SetSessionCookie(c, token.AccessToken)
	c.JSON(http.StatusOK, token)
}

// CompleteTeacherDetails activates a teacher
// @Summary Complete teacher profile
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param request body services.TeacherDetailsRequest true "Teacher details"
// @Success 200 {object} models.ProfileCompletionResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Not authorized"
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Router /profiles/complete-teacher-details [post]
func (h *LifecycleHandler) CompleteTeacherDetails(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.TeacherDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.profiles.CompleteTeacherProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Teacher profile completed")
	h.session.SetSessionCookie(c, resp.AccessToken)
	c.JSON(http.StatusOK, resp)
}

// CompleteStudentDetails activates a student
// @Summary Complete student profile
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param request body services.StudentDetailsRequest true "Student details"
// @Success 200 {object} models.ProfileCompletionResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Not authorized"
// @Router /profiles/complete-student-details [post]
func (h *LifecycleHandler) CompleteStudentDetails(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.StudentDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.profiles.CompleteStudentProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Student profile completed")
	h.session.SetSessionCookie(c, resp.AccessToken)
	c.JSON(http.StatusOK, resp)
}

// @Summary Own teacher profile
// @Tags profiles
// @Produce json
// @Success 200 {object} models.TeacherProfileResponse
// @Failure 403 {object} ErrorResponse "Not a teacher"
// @Router /profiles/teacher [get]
func (h *LifecycleHandler) GetTeacherProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetTeacherProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Summary Own student profile
// @Tags profiles
// @Produce json
// @Success 200 {object} models.StudentProfileResponse
// @Failure 403 {object} ErrorResponse "Not a student"
// @Router /profiles/student [get]
func (h *LifecycleHandler) GetStudentProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetStudentProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
