package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
)

// uniqueConstraints maps named unique constraints from the schema to the
// sentinel the service layer understands.
var uniqueConstraints = map[string]error{
	"users_email_key":               repositories.ErrEmailTaken,
	"students_student_id_key":       repositories.ErrStudentCodeTaken,
	"teachers_user_id_key":          repositories.ErrProfileExists,
	"students_user_id_key":          repositories.ErrProfileExists,
	"admins_user_id_key":            repositories.ErrProfileExists,
	"class_students_student_id_key": repositories.ErrAlreadyInClass,
}

// handleDBError converts driver errors into repository sentinels, keeping the
// original error in the chain.
func handleDBError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if sentinel, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%s: %w: %w", op, sentinel, err)
			}
			return fmt.Errorf("%s: %w: %w", op, repositories.ErrDuplicate, err)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, repositories.ErrForeignKey, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(result *gorm.DB, op string) error {
	if result.Error != nil {
		return handleDBError(result.Error, op)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return nil
}

// applyPagination applies limit/offset with an upper bound on page size
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query = query.Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// likePattern escapes LIKE wildcards in user input
func likePattern(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(q)) + "%"
}
