package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

type gradeService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradeService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) GradeService {
	return &gradeService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== CLASSES =====

func (s *gradeService) ListClasses(ctx context.Context, userID string) ([]*models.TeacherClassResponse, error) {
	teacher, err := activeTeacher(ctx, s.repo, userID, "list_classes")
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Class().ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, storeError("list teacher classes", err)
	}

	result := make([]*models.TeacherClassResponse, 0, len(assignments))
	for _, cs := range assignments {
		item := &models.TeacherClassResponse{ClassID: cs.ClassID, SubjectID: cs.SubjectID}
		if cs.Class != nil {
			item.ClassName = cs.Class.Name
		}
		if cs.Subject != nil {
			item.SubjectName = cs.Subject.Name
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *gradeService) GetClassRoster(ctx context.Context, userID, classID string) (*models.ClassRosterResponse, error) {
	teacher, err := activeTeacher(ctx, s.repo, userID, "view_roster")
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, teacher, classID)
	if err != nil {
		return nil, err
	}
	return s.roster(ctx, teacher, assignment)
}

// roster gathers the class students with the marks and absences the teacher
// recorded in the assigned subject.
func (s *gradeService) roster(ctx context.Context, teacher *models.Teacher, assignment *models.ClassSubject) (*models.ClassRosterResponse, error) {
	students, err := s.repo.Class().ListStudents(ctx, assignment.ClassID)
	if err != nil {
		return nil, storeError("list class students", err)
	}

	resp := &models.ClassRosterResponse{
		ClassID:   assignment.ClassID,
		SubjectID: assignment.SubjectID,
		Students:  make([]*models.RosterEntry, 0, len(students)),
	}
	if assignment.Class != nil {
		resp.ClassName = assignment.Class.Name
	}
	if assignment.Subject != nil {
		resp.SubjectName = assignment.Subject.Name
	}
	if len(students) == 0 {
		return resp, nil
	}

	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	filters := repositories.GradeFilters{
		StudentIDs: ids,
		TeacherID:  &teacher.ID,
		SubjectID:  &assignment.SubjectID,
	}

	marks, err := s.repo.Mark().List(ctx, filters)
	if err != nil {
		return nil, storeError("list marks", err)
	}
	absences, err := s.repo.Absence().List(ctx, filters)
	if err != nil {
		return nil, storeError("list absences", err)
	}

	entries := make(map[string]*models.RosterEntry, len(students))
	for _, st := range students {
		entry := &models.RosterEntry{
			StudentID: st.ID,
			Code:      st.StudentID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
			Marks:     []*models.Mark{},
			Absences:  []*models.Absence{},
		}
		entries[st.ID] = entry
		resp.Students = append(resp.Students, entry)
	}
	for _, m := range marks {
		if entry, ok := entries[m.StudentID]; ok {
			entry.Marks = append(entry.Marks, m)
		}
	}
	for _, a := range absences {
		if entry, ok := entries[a.StudentID]; ok {
			entry.Absences = append(entry.Absences, a)
		}
	}
	for _, entry := range resp.Students {
		entry.Average = average(entry.Marks)
	}
	return resp, nil
}

// ===== MARKS =====

func (s *gradeService) RecordMark(ctx context.Context, userID, classID string, req *CreateMarkRequest) (*models.Mark, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	teacher, assignment, err := s.gradingContext(ctx, userID, classID, req.StudentID, "record_mark")
	if err != nil {
		return nil, err
	}

	mark := &models.Mark{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		TeacherID:   teacher.ID,
		SubjectID:   assignment.SubjectID,
		Value:       req.Value,
		Description: req.Description,
		Date:        date,
	}
	if err := s.repo.Mark().Create(ctx, mark); err != nil {
		return nil, storeError("create mark", err)
	}

	s.logger.Info("Mark recorded", "mark_id", mark.ID, "student_id", mark.StudentID, "teacher_id", teacher.ID, "subject_id", mark.SubjectID)
	publishEvent(ctx, s.publisher, s.logger, events.EventMarkRecorded, events.MarkRecordedData{
		MarkID:      mark.ID,
		StudentID:   mark.StudentID,
		TeacherID:   mark.TeacherID,
		SubjectID:   mark.SubjectID,
		Value:       mark.Value,
		Description: mark.Description,
		Date:        mark.Date,
	})
	return mark, nil
}

func (s *gradeService) UpdateMark(ctx context.Context, userID, markID string, req *UpdateMarkRequest) (*models.Mark, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	teacher, err := activeTeacher(ctx, s.repo, userID, "update_mark")
	if err != nil {
		return nil, err
	}
	mark, err := s.ownMark(ctx, teacher, markID, "update")
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		mark.Value = *req.Value
	}
	if req.Description != nil {
		mark.Description = req.Description
	}
	if req.Date != nil {
		if mark.Date, err = parseDate(req.Date); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Mark().Update(ctx, mark); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMarkNotFound
		}
		return nil, storeError("update mark", err)
	}
	s.logger.Info("Mark updated", "mark_id", mark.ID, "teacher_id", teacher.ID)
	return mark, nil
}

func (s *gradeService) DeleteMark(ctx context.Context, userID, markID string) error {
	teacher, err := activeTeacher(ctx, s.repo, userID, "delete_mark")
	if err != nil {
		return err
	}
	if _, err := s.ownMark(ctx, teacher, markID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Mark().Delete(ctx, markID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMarkNotFound
		}
		return storeError("delete mark", err)
	}
	s.logger.Info("Mark deleted", "mark_id", markID, "teacher_id", teacher.ID)
	return nil
}

func (s *gradeService) ownMark(ctx context.Context, teacher *models.Teacher, markID, action string) (*models.Mark, error) {
	mark, err := s.repo.Mark().GetByID(ctx, markID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMarkNotFound
		}
		return nil, storeError("get mark", err)
	}
	if mark.TeacherID != teacher.ID {
		return nil, NewPermissionError(teacher.UserID, mark.ID, "mark", action, "recorded by another teacher")
	}
	return mark, nil
}

// ===== ABSENCES =====

func (s *gradeService) RecordAbsence(ctx context.Context, userID, classID string, req *CreateAbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	teacher, assignment, err := s.gradingContext(ctx, userID, classID, req.StudentID, "record_absence")
	if err != nil {
		return nil, err
	}

	absence := &models.Absence{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		TeacherID:   teacher.ID,
		SubjectID:   assignment.SubjectID,
		IsMotivated: req.IsMotivated,
		Description: req.Description,
		Date:        date,
	}
	if err := s.repo.Absence().Create(ctx, absence); err != nil {
		return nil, storeError("create absence", err)
	}

	s.logger.Info("Absence recorded", "absence_id", absence.ID, "student_id", absence.StudentID, "teacher_id", teacher.ID)
	publishEvent(ctx, s.publisher, s.logger, events.EventAbsenceRecorded, events.AbsenceRecordedData{
		AbsenceID:   absence.ID,
		StudentID:   absence.StudentID,
		TeacherID:   absence.TeacherID,
		SubjectID:   absence.SubjectID,
		IsMotivated: absence.IsMotivated,
		Description: absence.Description,
		Date:        absence.Date,
	})
	return absence, nil
}

func (s *gradeService) UpdateAbsence(ctx context.Context, userID, absenceID string, req *UpdateAbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	teacher, err := activeTeacher(ctx, s.repo, userID, "update_absence")
	if err != nil {
		return nil, err
	}
	absence, err := s.ownAbsence(ctx, teacher, absenceID, "update")
	if err != nil {
		return nil, err
	}

	if req.IsMotivated != nil {
		absence.IsMotivated = *req.IsMotivated
	}
	if req.Description != nil {
		absence.Description = req.Description
	}
	if req.Date != nil {
		if absence.Date, err = parseDate(req.Date); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Absence().Update(ctx, absence); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAbsenceNotFound
		}
		return nil, storeError("update absence", err)
	}
	s.logger.Info("Absence updated", "absence_id", absence.ID, "teacher_id", teacher.ID)
	return absence, nil
}

func (s *gradeService) DeleteAbsence(ctx context.Context, userID, absenceID string) error {
	teacher, err := activeTeacher(ctx, s.repo, userID, "delete_absence")
	if err != nil {
		return err
	}
	if _, err := s.ownAbsence(ctx, teacher, absenceID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Absence().Delete(ctx, absenceID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAbsenceNotFound
		}
		return storeError("delete absence", err)
	}
	s.logger.Info("Absence deleted", "absence_id", absenceID, "teacher_id", teacher.ID)
	return nil
}

func (s *gradeService) ownAbsence(ctx context.Context, teacher *models.Teacher, absenceID, action string) (*models.Absence, error) {
	absence, err := s.repo.Absence().GetByID(ctx, absenceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAbsenceNotFound
		}
		return nil, storeError("get absence", err)
	}
	if absence.TeacherID != teacher.ID {
		return nil, NewPermissionError(teacher.UserID, absence.ID, "absence", action, "recorded by another teacher")
	}
	return absence, nil
}

// ===== EXPORT =====

func (s *gradeService) ExportGradebook(ctx context.Context, userID, classID string) (*GradebookExport, error) {
	teacher, err := activeTeacher(ctx, s.repo, userID, "export_gradebook")
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignment(ctx, teacher, classID)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster(ctx, teacher, assignment)
	if err != nil {
		return nil, err
	}

	content, err := renderGradebook(roster)
	if err != nil {
		return nil, fmt.Errorf("render gradebook: %w", err)
	}

	s.logger.Info("Gradebook exported", "class_id", classID, "teacher_id", teacher.ID, "students", len(roster.Students))
	return &GradebookExport{
		FileName:    gradebookFileName(roster, time.Now().UTC()),
		ContentType: gradebookContentType,
		Content:     content,
	}, nil
}

// ===== HELPERS =====

// assignment returns the teacher's own subject in the class. Rows pairing
// the teacher with any other subject are ignored.
func (s *gradeService) assignment(ctx context.Context, teacher *models.Teacher, classID string) (*models.ClassSubject, error) {
	if err := classExists(ctx, s.repo, classID); err != nil {
		return nil, err
	}
	if teacher.SubjectID == nil {
		return nil, ErrTeacherNotAssigned
	}
	cs, err := s.repo.Class().GetTeacherAssignment(ctx, classID, teacher.ID, *teacher.SubjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotAssigned
		}
		return nil, storeError("get teacher assignment", err)
	}
	return cs, nil
}

// gradingContext checks the teacher teaches in the class and the student
// sits in it.
func (s *gradeService) gradingContext(ctx context.Context, userID, classID, studentID, action string) (*models.Teacher, *models.ClassSubject, error) {
	teacher, err := activeTeacher(ctx, s.repo, userID, action)
	if err != nil {
		return nil, nil, err
	}
	assignment, err := s.assignment(ctx, teacher, classID)
	if err != nil {
		return nil, nil, err
	}

	class, err := s.repo.Class().GetByStudentID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, storeError("get student class", err)
	}
	if class.ID != classID {
		return nil, nil, ErrStudentNotFound
	}
	return teacher, assignment, nil
}

// average is the mean mark rounded to two decimals, nil without marks.
func average(marks []*models.Mark) *float64 {
	if len(marks) == 0 {
		return nil
	}
	var sum float64
	for _, m := range marks {
		sum += m.Value
	}
	avg := math.Round(sum/float64(len(marks))*100) / 100
	return &avg
}
