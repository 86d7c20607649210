package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

const opAssignRole = "assign_role"

type roleService struct {
	repo       repositories.Repository
	classifier *RoleCodeClassifier
	issuer     auth.TokenIssuer
	publisher  events.EventPublisher
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewRoleService(
	repo repositories.Repository,
	classifier *RoleCodeClassifier,
	issuer auth.TokenIssuer,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) RoleService {
	return &roleService{
		repo:       repo,
		classifier: classifier,
		issuer:     issuer,
		publisher:  publisher,
		logger:     logger,
		validator:  validator,
	}
}

// AssignRole moves a pending user to the role named by req.Code. Profile
// creation and the role/status change commit together or not at all.
func (s *roleService) AssignRole(ctx context.Context, userID string, req *AssignRoleRequest) (*models.TokenResponse, error) {
	s.logger.Info("Assigning role", "user_id", userID)

	user, err := s.assign(ctx, userID, req)
	if err != nil {
		recordRejection(opAssignRole, err)
		s.logger.Warn("Role assignment rejected", "user_id", userID, "reason", rejectionReason(err), "error", err)
		return nil, err
	}

	recordTransition(user)
	s.logger.Info("Role assigned", "user_id", user.ID, "role", user.Role, "status", user.Status)

	token, err := s.issuer.Issue(auth.ClaimsForUser(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	data := events.RoleAssignedData{
		UserID: user.ID,
		Role:   string(user.Role),
		Status: string(user.Status),
	}
	if user.Role == models.RoleStudent {
		data.StudentID = req.Code
	}
	publishEvent(ctx, s.publisher, s.logger, events.EventRoleAssigned, data)

	return &models.TokenResponse{AccessToken: token, TokenType: models.TokenTypeBearer}, nil
}

func (s *roleService) assign(ctx context.Context, userID string, req *AssignRoleRequest) (*models.User, error) {
	var updated *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByIDForUpdate(ctx, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return storeError("lock user", err)
		}

		// A settled role wins over whatever the code looks like
		if user.Role != models.RolePending {
			return ErrRoleAlreadyAssigned
		}

		if req == nil || req.Code == "" {
			return ErrInvalidRoleCode
		}
		if err := s.validator.Validate(req); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRoleCode, err)
		}

		classification, err := s.classifier.Classify(req.Code)
		if err != nil {
			return err
		}

		status := models.StatusAwaitingDetails
		if classification.Role == models.RoleAdmin {
			status = models.StatusActive
		}

		if err := createProfile(ctx, tx, user.ID, classification); err != nil {
			return err
		}

		if err := tx.User().UpdateLifecycle(ctx, user.ID, classification.Role, status); err != nil {
			return storeError("update lifecycle", err)
		}

		user.Role = classification.Role
		user.Status = status
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// createProfile inserts the empty role profile. Student code clashes are
// detected by the store's unique constraint.
func createProfile(ctx context.Context, tx repositories.Repository, userID string, c RoleCodeClassification) error {
	var err error
	switch c.Role {
	case models.RoleTeacher:
		err = tx.Teacher().Create(ctx, &models.Teacher{ID: uuid.NewString(), UserID: userID})
	case models.RoleStudent:
		err = tx.Student().Create(ctx, &models.Student{ID: uuid.NewString(), UserID: userID, StudentID: c.StudentID})
	case models.RoleAdmin:
		err = tx.Admin().Create(ctx, &models.Admin{ID: uuid.NewString(), UserID: userID})
	default:
		return ErrInvalidRoleCode
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrStudentCodeTaken):
		return ErrDuplicateStudentCode
	case errors.Is(err, repositories.ErrProfileExists):
		return ErrRoleAlreadyAssigned
	}
	return storeError("create "+string(c.Role)+" profile", err)
}
