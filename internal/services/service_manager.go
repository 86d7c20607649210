package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

// ServiceManagerConfig holds the collaborators shared by the services
type ServiceManagerConfig struct {
	RoleCodes config.RoleCodesConfig
	Issuer    auth.TokenIssuer
	Publisher events.EventPublisher
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	authService         AuthService
	roleService         RoleService
	profileService      ProfileService
	subjectService      SubjectService
	classService        ClassService
	gradeService        GradeService
	studentService      StudentService
	notificationService NotificationService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.Issuer == nil {
		return fmt.Errorf("failed to initialize services: token issuer is required")
	}

	sm.initializeServices()

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) initializeServices() {
	classifier := NewRoleCodeClassifier(sm.config.RoleCodes)
	issuer, publisher := sm.config.Issuer, sm.config.Publisher

	sm.authService = NewAuthService(sm.repo, issuer, sm.logger, sm.validator)
	sm.roleService = NewRoleService(sm.repo, classifier, issuer, publisher, sm.logger, sm.validator)
	sm.profileService = NewProfileService(sm.repo, issuer, publisher, sm.logger, sm.validator)
	sm.subjectService = NewSubjectService(sm.repo, sm.logger, sm.validator)
	sm.classService = NewClassService(sm.repo, sm.logger, sm.validator)
	sm.gradeService = NewGradeService(sm.repo, publisher, sm.logger, sm.validator)
	sm.studentService = NewStudentService(sm.repo, sm.logger)
	sm.notificationService = NewNotificationService(sm.repo, sm.logger)

	sm.logger.Info("Services initialized", "publisher", publisher != nil)
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Role() RoleService {
	sm.mustBeInitialized()
	return sm.roleService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mustBeInitialized()
	return sm.profileService
}

func (sm *serviceManager) Subject() SubjectService {
	sm.mustBeInitialized()
	return sm.subjectService
}

func (sm *serviceManager) Class() ClassService {
	sm.mustBeInitialized()
	return sm.classService
}

func (sm *serviceManager) Grade() GradeService {
	sm.mustBeInitialized()
	return sm.gradeService
}

func (sm *serviceManager) Student() StudentService {
	sm.mustBeInitialized()
	return sm.studentService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mustBeInitialized()
	return sm.notificationService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")
	if sm.config.Publisher != nil {
		if err := sm.config.Publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")
	return nil
}
