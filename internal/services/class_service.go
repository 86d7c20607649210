package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

type classService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewClassService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ClassService {
	return &classService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== CLASSES =====

func (s *classService) CreateClass(ctx context.Context, req *CreateClassRequest) (*models.ClassResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	class := &models.Class{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(req.Name),
	}
	if err := s.repo.Class().Create(ctx, class); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, storeError("create class", err)
	}

	s.logger.Info("Class created", "class_id", class.ID, "name", class.Name)
	return &models.ClassResponse{ID: class.ID, Name: class.Name, CreatedAt: class.CreatedAt}, nil
}

func (s *classService) ListClasses(ctx context.Context) ([]*models.ClassResponse, error) {
	classes, err := s.repo.Class().List(ctx)
	if err != nil {
		return nil, storeError("list classes", err)
	}

	result := make([]*models.ClassResponse, 0, len(classes))
	for _, class := range classes {
		count, err := s.repo.Class().CountStudents(ctx, class.ID)
		if err != nil {
			return nil, storeError("count class students", err)
		}
		result = append(result, &models.ClassResponse{
			ID:           class.ID,
			Name:         class.Name,
			StudentCount: int(count),
			CreatedAt:    class.CreatedAt,
		})
	}
	return result, nil
}

func (s *classService) DeleteClass(ctx context.Context, id string) error {
	if err := s.repo.Class().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrClassNotFound
		}
		return storeError("delete class", err)
	}
	s.logger.Info("Class deleted", "class_id", id)
	return nil
}

// ===== ROSTER =====

// AddStudents places students in the class. The whole batch fails when any
// student is unknown or already sits in a class.
func (s *classService) AddStudents(ctx context.Context, classID string, req *AddStudentsRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	ids := uniqueStrings(req.StudentIDs)
	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := classExists(ctx, tx, classID); err != nil {
			return err
		}

		students, err := tx.Student().GetByIDs(ctx, ids)
		if err != nil {
			return storeError("get students", err)
		}
		if len(students) != len(ids) {
			return ErrStudentNotFound
		}

		if err := tx.Class().AddStudents(ctx, classID, ids); err != nil {
			if errors.Is(err, repositories.ErrAlreadyInClass) {
				return ErrStudentInOtherClass
			}
			return storeError("add class students", err)
		}

		s.logger.Info("Students added to class", "class_id", classID, "count", len(ids))
		return nil
	})
}

func (s *classService) RemoveStudent(ctx context.Context, classID, studentID string) error {
	if err := s.repo.Class().RemoveStudent(ctx, classID, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return storeError("remove class student", err)
	}
	s.logger.Info("Student removed from class", "class_id", classID, "student_id", studentID)
	return nil
}

// ===== SUBJECTS =====

// AssignSubject adds a subject to the class or replaces the teacher of an
// already assigned subject.
func (s *classService) AssignSubject(ctx context.Context, classID string, req *AssignClassSubjectRequest) (*models.ClassSubjectResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var resp *models.ClassSubjectResponse
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := classExists(ctx, tx, classID); err != nil {
			return err
		}

		subject, err := tx.Subject().GetByID(ctx, req.SubjectID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSubjectNotFound
			}
			return storeError("get subject", err)
		}

		cs := &models.ClassSubject{ClassID: classID, SubjectID: subject.ID}
		var teacher *models.Teacher
		if req.TeacherID != nil {
			teacher, err = tx.Teacher().GetByID(ctx, *req.TeacherID)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrTeacherNotFound
				}
				return storeError("get teacher", err)
			}
			// The gradebook is keyed on the teacher's own subject
			if teacher.SubjectID == nil || *teacher.SubjectID != subject.ID {
				return ErrSubjectMismatch
			}
			cs.TeacherID = &teacher.ID
		}

		if err := tx.Class().AssignSubject(ctx, cs); err != nil {
			return storeError("assign class subject", err)
		}
		cs.Subject, cs.Teacher = subject, teacher
		resp = classSubjectResponse(cs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subject assigned to class", "class_id", classID, "subject_id", req.SubjectID, "teacher_id", req.TeacherID)
	return resp, nil
}

func (s *classService) RemoveSubject(ctx context.Context, classID, subjectID string) error {
	if err := s.repo.Class().RemoveSubject(ctx, classID, subjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return storeError("remove class subject", err)
	}
	s.logger.Info("Subject removed from class", "class_id", classID, "subject_id", subjectID)
	return nil
}

func (s *classService) ListClassSubjects(ctx context.Context, classID string) ([]*models.ClassSubjectResponse, error) {
	if err := classExists(ctx, s.repo, classID); err != nil {
		return nil, err
	}

	subjects, err := s.repo.Class().ListSubjects(ctx, classID)
	if err != nil {
		return nil, storeError("list class subjects", err)
	}
	return classSubjectResponses(subjects), nil
}

// ===== DIRECTORY =====

func (s *classService) ListTeachers(ctx context.Context, filters repositories.ListFilters) (*models.ListResponse[*models.Teacher], error) {
	page, size, limit, offset := pageFromFilters(filters)
	filters.Limit, filters.Offset = limit, offset

	teachers, total, err := s.repo.Teacher().List(ctx, filters)
	if err != nil {
		return nil, storeError("list teachers", err)
	}
	return &models.ListResponse[*models.Teacher]{Items: teachers, Total: total, Page: page, Size: size}, nil
}

func (s *classService) ListStudents(ctx context.Context, filters repositories.ListFilters) (*models.ListResponse[*models.Student], error) {
	page, size, limit, offset := pageFromFilters(filters)
	filters.Limit, filters.Offset = limit, offset

	students, total, err := s.repo.Student().List(ctx, filters)
	if err != nil {
		return nil, storeError("list students", err)
	}
	return &models.ListResponse[*models.Student]{Items: students, Total: total, Page: page, Size: size}, nil
}

// ===== HELPERS =====

func classExists(ctx context.Context, repo repositories.Repository, classID string) error {
	if _, err := repo.Class().GetByID(ctx, classID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrClassNotFound
		}
		return storeError("get class", err)
	}
	return nil
}

// pageFromFilters converts limit/offset filters back into page numbers.
func pageFromFilters(f repositories.ListFilters) (int, int, int, int) {
	size := f.Limit
	if size < 1 {
		size = defaultPageSize
	}
	page := 1
	if f.Offset > 0 {
		page = f.Offset/size + 1
	}
	return pageBounds(page, size)
}

func classSubjectResponse(cs *models.ClassSubject) *models.ClassSubjectResponse {
	resp := &models.ClassSubjectResponse{
		SubjectID: cs.SubjectID,
		TeacherID: cs.TeacherID,
	}
	if cs.Subject != nil {
		resp.SubjectName = cs.Subject.Name
	}
	if cs.Teacher != nil {
		name := cs.Teacher.FullName()
		resp.TeacherName = &name
	}
	return resp
}

func classSubjectResponses(subjects []*models.ClassSubject) []*models.ClassSubjectResponse {
	result := make([]*models.ClassSubjectResponse, 0, len(subjects))
	for _, cs := range subjects {
		result = append(result, classSubjectResponse(cs))
	}
	return result
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
