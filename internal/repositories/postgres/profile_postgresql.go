package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

// ===== TEACHERS =====

type teacherPostgreSQL struct {
	db *gorm.DB
}

func NewTeacherPostgreSQL(db *gorm.DB) repositories.TeacherRepository {
	return &teacherPostgreSQL{db: db}
}

func (r *teacherPostgreSQL) Create(ctx context.Context, teacher *models.Teacher) error {
	if err := r.db.WithContext(ctx).Create(teacher).Error; err != nil {
		return handleDBError(err, "create teacher profile")
	}
	return nil
}

func (r *teacherPostgreSQL) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("id = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, handleDBError(err, "get teacher by id")
	}
	return &teacher, nil
}

func (r *teacherPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		First(&teacher).Error
	if err != nil {
		return nil, handleDBError(err, "get teacher by user id")
	}
	return &teacher, nil
}

func (r *teacherPostgreSQL) Update(ctx context.Context, teacher *models.Teacher) error {
	result := r.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("id = ?", teacher.ID).
		Updates(map[string]interface{}{
			"first_name":  teacher.FirstName,
			"last_name":   teacher.LastName,
			"father_name": teacher.FatherName,
			"gov_number":  teacher.GovNumber,
			"subject_id":  teacher.SubjectID,
		})
	return requireAffected(result, "update teacher profile")
}

func (r *teacherPostgreSQL) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Teacher, int64, error) {
	var teachers []*models.Teacher
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Teacher{})
	if filters.Query != "" {
		pattern := likePattern(filters.Query)
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count teachers")
	}

	query = applyPagination(query.Preload("Subject").Order("last_name, first_name"), filters.Limit, filters.Offset)
	if err := query.Find(&teachers).Error; err != nil {
		return nil, 0, handleDBError(err, "list teachers")
	}

	return teachers, total, nil
}

// ===== STUDENTS =====

type studentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &studentPostgreSQL{db: db}
}

func (r *studentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return handleDBError(err, "create student profile")
	}
	return nil
}

func (r *studentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by id")
	}
	return &student, nil
}

func (r *studentPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by user id")
	}
	return &student, nil
}

func (r *studentPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	var students []*models.Student
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, handleDBError(err, "get students by ids")
	}
	return students, nil
}

// Update never touches student_id: the code is fixed at role assignment.
func (r *studentPostgreSQL) Update(ctx context.Context, student *models.Student) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", student.ID).
		Updates(map[string]interface{}{
			"first_name":  student.FirstName,
			"last_name":   student.LastName,
			"father_name": student.FatherName,
			"gov_number":  student.GovNumber,
		})
	return requireAffected(result, "update student profile")
}

func (r *studentPostgreSQL) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Student, int64, error) {
	var students []*models.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Student{})
	if filters.Query != "" {
		pattern := likePattern(filters.Query)
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR student_id ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count students")
	}

	query = applyPagination(query.Order("last_name, first_name"), filters.Limit, filters.Offset)
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, handleDBError(err, "list students")
	}

	return students, total, nil
}

// ===== ADMINS =====

type adminPostgreSQL struct {
	db *gorm.DB
}

func NewAdminPostgreSQL(db *gorm.DB) repositories.AdminRepository {
	return &adminPostgreSQL{db: db}
}

func (r *adminPostgreSQL) Create(ctx context.Context, admin *models.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return handleDBError(err, "create admin profile")
	}
	return nil
}

func (r *adminPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return nil, handleDBError(err, "get admin by user id")
	}
	return &admin, nil
}
