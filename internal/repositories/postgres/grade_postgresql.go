package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

func applyGradeFilters(query *gorm.DB, filters repositories.GradeFilters) *gorm.DB {
	if len(filters.StudentIDs) > 0 {
		query = query.Where("student_id IN ?", filters.StudentIDs)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	return query.Order("date DESC")
}

// ===== MARKS =====

type markPostgreSQL struct {
	db *gorm.DB
}

func NewMarkPostgreSQL(db *gorm.DB) repositories.MarkRepository {
	return &markPostgreSQL{db: db}
}

func (r *markPostgreSQL) Create(ctx context.Context, mark *models.Mark) error {
	if err := r.db.WithContext(ctx).Create(mark).Error; err != nil {
		return handleDBError(err, "create mark")
	}
	return nil
}

func (r *markPostgreSQL) GetByID(ctx context.Context, id string) (*models.Mark, error) {
	var mark models.Mark
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mark).Error; err != nil {
		return nil, handleDBError(err, "get mark by id")
	}
	return &mark, nil
}

func (r *markPostgreSQL) Update(ctx context.Context, mark *models.Mark) error {
	result := r.db.WithContext(ctx).
		Model(&models.Mark{}).
		Where("id = ?", mark.ID).
		Updates(map[string]interface{}{
			"value":       mark.Value,
			"description": mark.Description,
			"date":        mark.Date,
		})
	return requireAffected(result, "update mark")
}

func (r *markPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Mark{})
	return requireAffected(result, "delete mark")
}

func (r *markPostgreSQL) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Mark, error) {
	var marks []*models.Mark
	query := applyGradeFilters(r.db.WithContext(ctx).Model(&models.Mark{}).Preload("Subject"), filters)
	if err := query.Find(&marks).Error; err != nil {
		return nil, handleDBError(err, "list marks")
	}
	return marks, nil
}

// ===== ABSENCES =====

type absencePostgreSQL struct {
	db *gorm.DB
}

func NewAbsencePostgreSQL(db *gorm.DB) repositories.AbsenceRepository {
	return &absencePostgreSQL{db: db}
}

func (r *absencePostgreSQL) Create(ctx context.Context, absence *models.Absence) error {
	if err := r.db.WithContext(ctx).Create(absence).Error; err != nil {
		return handleDBError(err, "create absence")
	}
	return nil
}

func (r *absencePostgreSQL) GetByID(ctx context.Context, id string) (*models.Absence, error) {
	var absence models.Absence
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&absence).Error; err != nil {
		return nil, handleDBError(err, "get absence by id")
	}
	return &absence, nil
}

func (r *absencePostgreSQL) Update(ctx context.Context, absence *models.Absence) error {
	result := r.db.WithContext(ctx).
		Model(&models.Absence{}).
		Where("id = ?", absence.ID).
		Updates(map[string]interface{}{
			"is_motivated": absence.IsMotivated,
			"description":  absence.Description,
			"date":         absence.Date,
		})
	return requireAffected(result, "update absence")
}

func (r *absencePostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Absence{})
	return requireAffected(result, "delete absence")
}

func (r *absencePostgreSQL) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Absence, error) {
	var absences []*models.Absence
	query := applyGradeFilters(r.db.WithContext(ctx).Model(&models.Absence{}).Preload("Subject"), filters)
	if err := query.Find(&absences).Error; err != nil {
		return nil, handleDBError(err, "list absences")
	}
	return absences, nil
}
