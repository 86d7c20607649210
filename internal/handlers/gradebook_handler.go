package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
)

// GradebookHandler serves the teacher routes
type GradebookHandler struct {
	BaseHandler
	service services.GradeService
}

func NewGradebookHandler(service services.GradeService, logger utils.Logger) *GradebookHandler {
	return &GradebookHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// @Summary Classes taught by the caller
// @Tags teacher
// @Produce json
// @Success 200 {array} models.TeacherClassResponse
// @Router /teacher/classes [get]
func (h *GradebookHandler) ListClasses(c *gin.Context) {
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

// @Summary Class roster with the caller's marks and absences
// @Tags teacher
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} models.ClassRosterResponse
// @Failure 403 {object} ErrorResponse "Not assigned to this class"
// @Router /teacher/classes/{id}/students [get]
func (h *GradebookHandler) GetRoster(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	roster, err := h.service.GetClassRoster(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// @Summary Record a mark
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param request body services.CreateMarkRequest true "Mark"
// @Success 201 {object} models.Mark
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Not assigned to this class"
// @Failure 404 {object} ErrorResponse "Student not in class"
// @Router /teacher/classes/{id}/students/marks [post]
func (h *GradebookHandler) RecordMark(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateMarkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	mark, err := h.service.RecordMark(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Mark recorded", "mark_id", mark.ID, "student_id", mark.StudentID)
	c.JSON(http.StatusCreated, mark)
}

// @Summary Update own mark
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path string true "Mark ID"
// @Param request body services.UpdateMarkRequest true "Changes"
// @Success 200 {object} models.Mark
// @Router /teacher/marks/{id} [put]
func (h *GradebookHandler) UpdateMark(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateMarkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	mark, err := h.service.UpdateMark(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mark)
}

// @Summary Delete own mark
// @Tags teacher
// @Param id path string true "Mark ID"
// @Success 204
// @Router /teacher/marks/{id} [delete]
func (h *GradebookHandler) DeleteMark(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMark(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Record an absence
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param request body services.CreateAbsenceRequest true "Absence"
// @Success 201 {object} models.Absence
// @Router /teacher/classes/{id}/students/absences [post]
func (h *GradebookHandler) RecordAbsence(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAbsenceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	absence, err := h.service.RecordAbsence(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Absence recorded", "absence_id", absence.ID, "student_id", absence.StudentID)
	c.JSON(http.StatusCreated, absence)
}

// @Summary Update own absence
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path string true "Absence ID"
// @Param request body services.UpdateAbsenceRequest true "Changes"
// @Success 200 {object} models.Absence
// @Router /teacher/absences/{id} [put]
func (h *GradebookHandler) UpdateAbsence(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateAbsenceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	absence, err := h.service.UpdateAbsence(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, absence)
}

// @Summary Delete own absence
// @Tags teacher
// @Param id path string true "Absence ID"
// @Success 204
// @Router /teacher/absences/{id} [delete]
func (h *GradebookHandler) DeleteAbsence(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAbsence(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportGradebook streams the class gradebook as a spreadsheet
// @Summary Export gradebook
// @Tags teacher
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Class ID"
// @Success 200 {file} file
// @Router /teacher/classes/{id}/gradebook.xlsx [get]
func (h *GradebookHandler) ExportGradebook(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	export, err := h.service.ExportGradebook(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, export.ContentType, export.Content)
}
