package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries what every handler needs
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "path", c.FullPath(), "user_id", c.GetString(contextUserID))
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.FromContext(c, h.logger).Error(msg, "error", err, "path", c.FullPath(), "user_id", c.GetString(contextUserID))
}

// bindJSON decodes the body and answers 400 on malformed input.
func (h *BaseHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// currentUserID returns the authenticated user or answers 401.
func (h *BaseHandler) currentUserID(c *gin.Context) (string, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return "", false
	}
	return userID, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func optionalQuery(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

// ===== ERROR HANDLING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && !errors.Is(err, services.ErrInvalidRoleCode) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	// Lifecycle
	case errors.Is(err, services.ErrInvalidRoleCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid role code"})
	case errors.Is(err, services.ErrRoleAlreadyAssigned):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Role already assigned"})
	case errors.Is(err, services.ErrDuplicateStudentCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Student code already in use"})
	case errors.Is(err, services.ErrNotAuthorized), errors.Is(err, services.ErrTeacherNotAssigned):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})

	// Auth
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Email already registered"})

	// Lookups
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSubjectNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrClassNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrTeacherNotFound),
		errors.Is(err, services.ErrMarkNotFound),
		errors.Is(err, services.ErrAbsenceNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrStudentInOtherClass),
		errors.Is(err, services.ErrSubjectMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
