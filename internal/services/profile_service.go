package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

const (
	opCompleteTeacher = "complete_teacher_profile"
	opCompleteStudent = "complete_student_profile"
)

type profileService struct {
	repo      repositories.Repository
	issuer    auth.TokenIssuer
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(
	repo repositories.Repository,
	issuer auth.TokenIssuer,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ProfileService {
	return &profileService{
		repo:      repo,
		issuer:    issuer,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== COMPLETION =====

func (s *profileService) CompleteTeacherProfile(ctx context.Context, userID string, req *TeacherDetailsRequest) (*models.ProfileCompletionResponse, error) {
	s.logger.Info("Completing teacher profile", "user_id", userID, "subject_id", req.SubjectID)

	var profileID string
	user, err := s.complete(ctx, userID, models.RoleTeacher, opCompleteTeacher, req, func(tx repositories.Repository) error {
		if _, err := tx.Subject().GetByID(ctx, req.SubjectID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSubjectNotFound
			}
			return storeError("get subject", err)
		}

		teacher, err := tx.Teacher().GetByUserID(ctx, userID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return storeError("get teacher profile", err)
		}

		subjectID := req.SubjectID
		if teacher == nil {
			// Assignment always creates the row; recreate it if it went missing
			teacher = &models.Teacher{ID: uuid.NewString(), UserID: userID}
			applyTeacherDetails(teacher, req, &subjectID)
			if err := tx.Teacher().Create(ctx, teacher); err != nil {
				return storeError("create teacher profile", err)
			}
		} else {
			applyTeacherDetails(teacher, req, &subjectID)
			if err := tx.Teacher().Update(ctx, teacher); err != nil {
				return storeError("update teacher profile", err)
			}
		}
		profileID = teacher.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, user, profileID, "Teacher profile completed")
}

func (s *profileService) CompleteStudentProfile(ctx context.Context, userID string, req *StudentDetailsRequest) (*models.ProfileCompletionResponse, error) {
	s.logger.Info("Completing student profile", "user_id", userID)

	var profileID string
	user, err := s.complete(ctx, userID, models.RoleStudent, opCompleteStudent, req, func(tx repositories.Repository) error {
		student, err := tx.Student().GetByUserID(ctx, userID)
		if err != nil {
			// The student code exists only on the row created at assignment
			if repositories.IsNotFoundError(err) {
				return ErrProfileNotFound
			}
			return storeError("get student profile", err)
		}

		student.FirstName = req.FirstName
		student.LastName = req.LastName
		student.FatherName = req.FatherName
		student.GovNumber = req.GovNumber
		if err := tx.Student().Update(ctx, student); err != nil {
			return storeError("update student profile", err)
		}
		profileID = student.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, user, profileID, "Student profile completed")
}

// complete validates req, then inside one transaction locks the user,
// checks it awaits details for role, runs apply and activates the user.
func (s *profileService) complete(
	ctx context.Context,
	userID string,
	role models.UserRole,
	op string,
	req interface{},
	apply func(tx repositories.Repository) error,
) (*models.User, error) {
	user, err := s.completeTx(ctx, userID, role, op, req, apply)
	if err != nil {
		recordRejection(op, err)
		s.logger.Warn("Profile completion rejected", "user_id", userID, "role", role, "reason", rejectionReason(err), "error", err)
		return nil, err
	}

	recordTransition(user)
	s.logger.Info("Profile completed", "user_id", userID, "role", role)
	return user, nil
}

func (s *profileService) completeTx(
	ctx context.Context,
	userID string,
	role models.UserRole,
	op string,
	req interface{},
	apply func(tx repositories.Repository) error,
) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByIDForUpdate(ctx, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return storeError("lock user", err)
		}

		if user.Role != role {
			return NewPermissionError(userID, user.ID, string(role)+"_profile", op, "role "+string(user.Role))
		}
		if user.Status != models.StatusAwaitingDetails {
			return NewPermissionError(userID, user.ID, string(role)+"_profile", op, "status "+string(user.Status))
		}

		if err := apply(tx); err != nil {
			return err
		}

		if err := tx.User().UpdateLifecycle(ctx, user.ID, role, models.StatusActive); err != nil {
			return storeError("update lifecycle", err)
		}
		user.Status = models.StatusActive
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *profileService) finish(ctx context.Context, user *models.User, profileID, message string) (*models.ProfileCompletionResponse, error) {
	token, err := s.issuer.Issue(auth.ClaimsForUser(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, events.EventProfileCompleted, events.ProfileCompletedData{
		UserID:    user.ID,
		Role:      string(user.Role),
		ProfileID: profileID,
	})

	return &models.ProfileCompletionResponse{
		Status:  string(user.Status),
		Message: message,
		TokenResponse: models.TokenResponse{
			AccessToken: token,
			TokenType:   models.TokenTypeBearer,
		},
	}, nil
}

func applyTeacherDetails(t *models.Teacher, req *TeacherDetailsRequest, subjectID *string) {
	t.FirstName = req.FirstName
	t.LastName = req.LastName
	t.FatherName = req.FatherName
	t.GovNumber = req.GovNumber
	t.SubjectID = subjectID
}

// ===== READ SIDE =====

func (s *profileService) GetTeacherProfile(ctx context.Context, userID string) (*models.TeacherProfileResponse, error) {
	user, err := s.profileOwner(ctx, userID, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("get teacher profile", err)
	}

	resp := &models.TeacherProfileResponse{
		ID:         teacher.ID,
		UserID:     teacher.UserID,
		Email:      user.Email,
		FirstName:  teacher.FirstName,
		LastName:   teacher.LastName,
		FatherName: teacher.FatherName,
		GovNumber:  teacher.GovNumber,
		SubjectID:  teacher.SubjectID,
	}
	if teacher.Subject != nil {
		resp.SubjectName = &teacher.Subject.Name
	}
	return resp, nil
}

func (s *profileService) GetStudentProfile(ctx context.Context, userID string) (*models.StudentProfileResponse, error) {
	user, err := s.profileOwner(ctx, userID, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("get student profile", err)
	}

	resp := &models.StudentProfileResponse{
		ID:         student.ID,
		UserID:     student.UserID,
		Email:      user.Email,
		StudentID:  student.StudentID,
		FirstName:  student.FirstName,
		LastName:   student.LastName,
		FatherName: student.FatherName,
		GovNumber:  student.GovNumber,
	}

	class, err := s.repo.Class().GetByStudentID(ctx, student.ID)
	switch {
	case err == nil:
		resp.ClassID = &class.ID
		resp.ClassName = &class.Name
	case !repositories.IsNotFoundError(err):
		return nil, storeError("get student class", err)
	}
	return resp, nil
}

func (s *profileService) profileOwner(ctx context.Context, userID string, role models.UserRole) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}
	if user.Role != role {
		return nil, NewPermissionError(userID, user.ID, string(role)+"_profile", "read", "role "+string(user.Role))
	}
	return user, nil
}
