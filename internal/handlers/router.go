package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/services"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	lifecycleHandler    *LifecycleHandler
	subjectHandler      *SubjectHandler
	adminHandler        *AdminHandler
	gradebookHandler    *GradebookHandler
	studentHandler      *StudentHandler
	notificationHandler *NotificationHandler
	authMiddleware      *AuthMiddleware

	serviceManager  services.ServiceManager
	loginLimiter    *RateLimiter
	registerLimiter *RateLimiter
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	issuer auth.TokenIssuer,
	cfg *config.Config,
	logger utils.Logger,
) *HandlerManager {
	authMiddleware := NewAuthMiddleware(issuer, cfg.JWT)

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), authMiddleware, logger),
		lifecycleHandler:    NewLifecycleHandler(serviceManager.Role(), serviceManager.Profile(), authMiddleware, logger),
		subjectHandler:      NewSubjectHandler(serviceManager.Subject(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Class(), serviceManager.Subject(), logger),
		gradebookHandler:    NewGradebookHandler(serviceManager.Grade(), logger),
		studentHandler:      NewStudentHandler(serviceManager.Student(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		authMiddleware:      authMiddleware,

		serviceManager:  serviceManager,
		loginLimiter:    NewRateLimiter(cfg.RateLimits.LoginPerMinute),
		registerLimiter: NewRateLimiter(cfg.RateLimits.RegisterPerMinute),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	am := hm.authMiddleware

	// Public auth routes
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", RateLimitMiddleware(hm.registerLimiter), hm.authHandler.Register)
		authGroup.POST("/login", RateLimitMiddleware(hm.loginLimiter), hm.authHandler.Login)
		authGroup.POST("/logout", hm.authHandler.Logout)
		authGroup.GET("/me", am.Authenticate(), hm.authHandler.Me)
	}

	// Everything below requires a session
	api := router.Group("")
	api.Use(am.Authenticate())
	{
		// Lifecycle: the services re-check role and status under a row lock
		api.POST("/roles/assign-role", hm.lifecycleHandler.AssignRole)

		profiles := api.Group("/profiles")
		{
			profiles.POST("/complete-teacher-details", am.RequireRole(models.RoleTeacher), hm.lifecycleHandler.CompleteTeacherDetails)
			profiles.POST("/complete-student-details", am.RequireRole(models.RoleStudent), hm.lifecycleHandler.CompleteStudentDetails)
			profiles.GET("/teacher", am.RequireRole(models.RoleTeacher), hm.lifecycleHandler.GetTeacherProfile)
			profiles.GET("/student", am.RequireRole(models.RoleStudent), hm.lifecycleHandler.GetStudentProfile)
		}

		api.GET("/subjects", hm.subjectHandler.List)

		// Admin routes - active admins only
		admin := api.Group("/admin")
		admin.Use(am.RequireRole(models.RoleAdmin), am.RequireStatus(models.StatusActive))
		{
			admin.GET("/classes", hm.adminHandler.ListClasses)
			admin.POST("/classes", hm.adminHandler.CreateClass)
			admin.DELETE("/classes/:id", hm.adminHandler.DeleteClass)

			admin.POST("/classes/:id/students", hm.adminHandler.AddStudents)
			admin.DELETE("/classes/:id/students/:student_id", hm.adminHandler.RemoveStudent)

			admin.GET("/classes/:id/subjects", hm.adminHandler.ListClassSubjects)
			admin.POST("/classes/:id/subjects", hm.adminHandler.AssignSubject)
			admin.DELETE("/classes/:id/subjects/:subject_id", hm.adminHandler.RemoveSubject)

			admin.GET("/subjects", hm.subjectHandler.List)
			admin.POST("/subjects", hm.adminHandler.CreateSubject)
			admin.DELETE("/subjects/:id", hm.adminHandler.DeleteSubject)

			admin.GET("/teachers", hm.adminHandler.ListTeachers)
			admin.GET("/students", hm.adminHandler.ListStudents)
		}

		// Teacher routes - active teachers only
		teacher := api.Group("/teacher")
		teacher.Use(am.RequireRole(models.RoleTeacher), am.RequireStatus(models.StatusActive))
		{
			teacher.GET("/classes", hm.gradebookHandler.ListClasses)
			teacher.GET("/classes/:id/students", hm.gradebookHandler.GetRoster)
			teacher.POST("/classes/:id/students/marks", hm.gradebookHandler.RecordMark)
			teacher.POST("/classes/:id/students/absences", hm.gradebookHandler.RecordAbsence)
			teacher.GET("/classes/:id/gradebook.xlsx", hm.gradebookHandler.ExportGradebook)

			teacher.PUT("/marks/:id", hm.gradebookHandler.UpdateMark)
			teacher.DELETE("/marks/:id", hm.gradebookHandler.DeleteMark)
			teacher.PUT("/absences/:id", hm.gradebookHandler.UpdateAbsence)
			teacher.DELETE("/absences/:id", hm.gradebookHandler.DeleteAbsence)
		}

		// Student routes - active students only
		student := api.Group("/student")
		student.Use(am.RequireRole(models.RoleStudent), am.RequireStatus(models.StatusActive))
		{
			student.GET("/classes", hm.studentHandler.ListClasses)
			student.GET("/subjects", hm.studentHandler.ListSubjects)
			student.GET("/marks", hm.studentHandler.ListMarks)
			student.GET("/absences", hm.studentHandler.ListAbsences)
		}

		notifications := api.Group("/notifications")
		notifications.Use(am.RequireRole(models.RoleStudent), am.RequireStatus(models.StatusActive))
		{
			notifications.GET("", hm.notificationHandler.List)
			notifications.POST("/:id/read", hm.notificationHandler.MarkRead)
			notifications.DELETE("/:id", hm.notificationHandler.Delete)
		}
	}

	// Operational endpoints
	router.GET("/health", hm.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "marktrack-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "marktrack-service",
	})
}
