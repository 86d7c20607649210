package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// ListClasses returns the class the student is enrolled in
// @Summary Own classes
// @Tags student
// @Produce json
// @Success 200 {array} models.ClassResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /student/classes [get]
func (h *StudentHandler) ListClasses(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	classes, err := h.service.ListClasses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// @Summary Subjects of the student's class
// @Tags student
// @Produce json
// @Success 200 {array} models.ClassSubjectResponse
// @Router /student/subjects [get]
func (h *StudentHandler) ListSubjects(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	subjects, err := h.service.ListSubjects(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// @Summary Own marks
// @Tags student
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Success 200 {array} models.Mark
// @Router /student/marks [get]
func (h *StudentHandler) ListMarks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	marks, err := h.service.ListMarks(c.Request.Context(), userID, optionalQuery(c, "subject_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, marks)
}

// @Summary Own absences
// @Tags student
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Success 200 {array} models.Absence
// @Router /student/absences [get]
func (h *StudentHandler) ListAbsences(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	absences, err := h.service.ListAbsences(c.Request.Context(), userID, optionalQuery(c, "subject_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, absences)
}
