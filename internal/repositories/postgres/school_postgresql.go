package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/marktrack-service/internal/cache"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

// ===== SUBJECTS =====

const subjectListKey = "list:all"

type subjectPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewSubjectPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SubjectRepository {
	return &subjectPostgreSQL{db: db, cache: cacheManager.Subject}
}

func (r *subjectPostgreSQL) Create(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Create(subject).Error; err != nil {
		return handleDBError(err, "create subject")
	}
	cache.Invalidate(ctx, r.cache, subjectListKey)
	return nil
}

func (r *subjectPostgreSQL) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error; err != nil {
		return nil, handleDBError(err, "get subject by id")
	}
	return &subject, nil
}

// List serves the catalogue from cache when available.
func (r *subjectPostgreSQL) List(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject
	err := r.cache.CacheOrExecute(ctx, subjectListKey, &subjects, cache.SubjectCacheConfig.TTL, func() (interface{}, error) {
		var rows []*models.Subject
		if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
			return nil, handleDBError(err, "list subjects")
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subject{})
	if err := requireAffected(result, "delete subject"); err != nil {
		return err
	}
	cache.Invalidate(ctx, r.cache, subjectListKey)
	return nil
}

// ===== CLASSES =====

const classListKey = "list:all"

type classPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewClassPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ClassRepository {
	return &classPostgreSQL{db: db, cache: cacheManager.Class}
}

func (r *classPostgreSQL) Create(ctx context.Context, class *models.Class) error {
	if err := r.db.WithContext(ctx).Create(class).Error; err != nil {
		return handleDBError(err, "create class")
	}
	cache.Invalidate(ctx, r.cache, classListKey)
	return nil
}

func (r *classPostgreSQL) GetByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		return nil, handleDBError(err, "get class by id")
	}
	return &class, nil
}

func (r *classPostgreSQL) List(ctx context.Context) ([]*models.Class, error) {
	var classes []*models.Class
	err := r.cache.CacheOrExecute(ctx, classListKey, &classes, cache.ClassCacheConfig.TTL, func() (interface{}, error) {
		var rows []*models.Class
		if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
			return nil, handleDBError(err, "list classes")
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Class{})
	if err := requireAffected(result, "delete class"); err != nil {
		return err
	}
	cache.Invalidate(ctx, r.cache, classListKey)
	return nil
}

// AddStudents is idempotent for students already in this class; a student
// placed in another class fails with ErrAlreadyInClass.
func (r *classPostgreSQL) AddStudents(ctx context.Context, classID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}

	rows := make([]models.ClassStudent, 0, len(studentIDs))
	for _, id := range studentIDs {
		rows = append(rows, models.ClassStudent{ClassID: classID, StudentID: id})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	if err != nil {
		return handleDBError(err, "add students to class")
	}
	return nil
}

func (r *classPostgreSQL) RemoveStudent(ctx context.Context, classID, studentID string) error {
	result := r.db.WithContext(ctx).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Delete(&models.ClassStudent{})
	return requireAffected(result, "remove student from class")
}

func (r *classPostgreSQL) ListStudents(ctx context.Context, classID string) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.WithContext(ctx).
		Joins("JOIN class_students cs ON cs.student_id = students.id").
		Where("cs.class_id = ?", classID).
		Order("students.last_name, students.first_name").
		Find(&students).Error
	if err != nil {
		return nil, handleDBError(err, "list class students")
	}
	return students, nil
}

func (r *classPostgreSQL) CountStudents(ctx context.Context, classID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClassStudent{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	if err != nil {
		return 0, handleDBError(err, "count class students")
	}
	return count, nil
}

func (r *classPostgreSQL) GetByStudentID(ctx context.Context, studentID string) (*models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Joins("JOIN class_students cs ON cs.class_id = classes.id").
		Where("cs.student_id = ?", studentID).
		First(&class).Error
	if err != nil {
		return nil, handleDBError(err, "get class of student")
	}
	return &class, nil
}

func (r *classPostgreSQL) AssignSubject(ctx context.Context, cs *models.ClassSubject) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_id"}, {Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"teacher_id"}),
		}).
		Create(cs).Error
	if err != nil {
		return handleDBError(err, "assign subject to class")
	}
	return nil
}

func (r *classPostgreSQL) RemoveSubject(ctx context.Context, classID, subjectID string) error {
	result := r.db.WithContext(ctx).
		Where("class_id = ? AND subject_id = ?", classID, subjectID).
		Delete(&models.ClassSubject{})
	return requireAffected(result, "remove subject from class")
}

func (r *classPostgreSQL) ListSubjects(ctx context.Context, classID string) ([]*models.ClassSubject, error) {
	var rows []*models.ClassSubject
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Where("class_id = ?", classID).
		Find(&rows).Error
	if err != nil {
		return nil, handleDBError(err, "list class subjects")
	}
	return rows, nil
}

func (r *classPostgreSQL) ListByTeacher(ctx context.Context, teacherID string) ([]*models.ClassSubject, error) {
	var rows []*models.ClassSubject
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Where("teacher_id = ?", teacherID).
		Find(&rows).Error
	if err != nil {
		return nil, handleDBError(err, "list teacher classes")
	}
	return rows, nil
}

func (r *classPostgreSQL) GetTeacherAssignment(ctx context.Context, classID, teacherID, subjectID string) (*models.ClassSubject, error) {
	var cs models.ClassSubject
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Where("class_id = ? AND teacher_id = ? AND subject_id = ?", classID, teacherID, subjectID).
		First(&cs).Error
	if err != nil {
		return nil, handleDBError(err, "get teacher assignment")
	}
	return &cs, nil
}
