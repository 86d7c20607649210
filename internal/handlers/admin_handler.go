package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
)

// AdminHandler serves class, subject and directory management
type AdminHandler struct {
	BaseHandler
	classes  services.ClassService
	subjects services.SubjectService
}

func NewAdminHandler(classes services.ClassService, subjects services.SubjectService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		classes:     classes,
		subjects:    subjects,
	}
}

// ===== CLASSES =====

// @Summary List classes
// @Tags admin
// @Produce json
// @Success 200 {array} models.ClassResponse
// @Router /admin/classes [get]
func (h *AdminHandler) ListClasses(c *gin.Context) {
	classes, err := h.classes.ListClasses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// @Summary Create class
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.CreateClassRequest true "Class"
// @Success 201 {object} models.ClassResponse
// @Failure 409 {object} ErrorResponse "Class name taken"
// @Router /admin/classes [post]
func (h *AdminHandler) CreateClass(c *gin.Context) {
	var req services.CreateClassRequest
	if !h.bindJSON(c, &req) {
		return
	}

	class, err := h.classes.CreateClass(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Class created", "class_id", class.ID)
	c.JSON(http.StatusCreated, class)
}

// @Summary Delete class
// @Tags admin
// @Param id path string true "Class ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /admin/classes/{id} [delete]
func (h *AdminHandler) DeleteClass(c *gin.Context) {
	if err := h.classes.DeleteClass(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Class deleted", "class_id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

// AddStudents enrols students in bulk. Students already in the class are skipped.
// @Summary Add students to class
// @Tags admin
// @Accept json
// @Param id path string true "Class ID"
// @Param request body services.AddStudentsRequest true "Student IDs"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Class or student not found"
// @Failure 409 {object} ErrorResponse "Student enrolled in another class"
// @Router /admin/classes/{id}/students [post]
func (h *AdminHandler) AddStudents(c *gin.Context) {
	var req services.AddStudentsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.classes.AddStudents(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Students added"})
}

// @Summary Remove student from class
// @Tags admin
// @Param id path string true "Class ID"
// @Param student_id path string true "Student ID"
// @Success 204
// @Router /admin/classes/{id}/students/{student_id} [delete]
func (h *AdminHandler) RemoveStudent(c *gin.Context) {
	if err := h.classes.RemoveStudent(c.Request.Context(), c.Param("id"), c.Param("student_id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List class subjects
// @Tags admin
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {array} models.ClassSubjectResponse
// @Router /admin/classes/{id}/subjects [get]
func (h *AdminHandler) ListClassSubjects(c *gin.Context) {
	subjects, err := h.classes.ListClassSubjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// @Summary Assign subject to class
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param request body services.AssignClassSubjectRequest true "Subject and optional teacher"
// @Success 200 {object} models.ClassSubjectResponse
// @Router /admin/classes/{id}/subjects [post]
func (h *AdminHandler) AssignSubject(c *gin.Context) {
	var req services.AssignClassSubjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	assigned, err := h.classes.AssignSubject(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assigned)
}

// @Summary Remove subject from class
// @Tags admin
// @Param id path string true "Class ID"
// @Param subject_id path string true "Subject ID"
// @Success 204
// @Router /admin/classes/{id}/subjects/{subject_id} [delete]
func (h *AdminHandler) RemoveSubject(c *gin.Context) {
	if err := h.classes.RemoveSubject(c.Request.Context(), c.Param("id"), c.Param("subject_id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== SUBJECTS =====

// @Summary Create subject
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.CreateSubjectRequest true "Subject"
// @Success 201 {object} models.Subject
// @Failure 409 {object} ErrorResponse "Subject name taken"
// @Router /admin/subjects [post]
func (h *AdminHandler) CreateSubject(c *gin.Context) {
	var req services.CreateSubjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subject, err := h.subjects.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// @Summary Delete subject
// @Tags admin
// @Param id path string true "Subject ID"
// @Success 204
// @Router /admin/subjects/{id} [delete]
func (h *AdminHandler) DeleteSubject(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== DIRECTORY =====

// @Summary List teachers
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search by name"
// @Router /admin/teachers [get]
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.classes.ListTeachers(c.Request.Context(), parseListFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// @Summary List students
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search by name or student code"
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.classes.ListStudents(c.Request.Context(), parseListFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func parseListFilters(c *gin.Context) repositories.ListFilters {
	page := max(queryInt(c, "page", 1), 1)
	size := queryInt(c, "size", 20)
	if size < 1 || size > 100 {
		size = 20
	}

	return repositories.ListFilters{
		Query:  c.Query("q"),
		Limit:  size,
		Offset: (page - 1) * size,
	}
}
