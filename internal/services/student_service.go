package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

type studentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger) StudentService {
	return &studentService{
		repo:   repo,
		logger: logger,
	}
}

// ListClasses returns the class the student sits in, or an empty list.
func (s *studentService) ListClasses(ctx context.Context, userID string) ([]*models.ClassResponse, error) {
	student, err := activeStudent(ctx, s.repo, userID, "list_classes")
	if err != nil {
		return nil, err
	}

	class, err := s.studentClass(ctx, student)
	if err != nil || class == nil {
		return []*models.ClassResponse{}, err
	}

	count, err := s.repo.Class().CountStudents(ctx, class.ID)
	if err != nil {
		return nil, storeError("count class students", err)
	}
	return []*models.ClassResponse{{
		ID:           class.ID,
		Name:         class.Name,
		StudentCount: int(count),
		CreatedAt:    class.CreatedAt,
	}}, nil
}

func (s *studentService) ListSubjects(ctx context.Context, userID string) ([]*models.ClassSubjectResponse, error) {
	student, err := activeStudent(ctx, s.repo, userID, "list_subjects")
	if err != nil {
		return nil, err
	}

	class, err := s.studentClass(ctx, student)
	if err != nil || class == nil {
		return []*models.ClassSubjectResponse{}, err
	}

	subjects, err := s.repo.Class().ListSubjects(ctx, class.ID)
	if err != nil {
		return nil, storeError("list class subjects", err)
	}
	return classSubjectResponses(subjects), nil
}

func (s *studentService) ListMarks(ctx context.Context, userID string, subjectID *string) ([]*models.Mark, error) {
	student, err := activeStudent(ctx, s.repo, userID, "list_marks")
	if err != nil {
		return nil, err
	}

	marks, err := s.repo.Mark().List(ctx, repositories.GradeFilters{
		StudentIDs: []string{student.ID},
		SubjectID:  subjectID,
	})
	if err != nil {
		return nil, storeError("list marks", err)
	}
	return marks, nil
}

func (s *studentService) ListAbsences(ctx context.Context, userID string, subjectID *string) ([]*models.Absence, error) {
	student, err := activeStudent(ctx, s.repo, userID, "list_absences")
	if err != nil {
		return nil, err
	}

	absences, err := s.repo.Absence().List(ctx, repositories.GradeFilters{
		StudentIDs: []string{student.ID},
		SubjectID:  subjectID,
	})
	if err != nil {
		return nil, storeError("list absences", err)
	}
	return absences, nil
}

// studentClass returns nil without error when the student has no class yet.
func (s *studentService) studentClass(ctx context.Context, student *models.Student) (*models.Class, error) {
	class, err := s.repo.Class().GetByStudentID(ctx, student.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, storeError("get student class", err)
	}
	return class, nil
}
