// Package repository implements the data access layer for the seeder.
package repository

import (
	"context"
	"errors"
	"strings"

	"panchayat/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// profileKeys are the unique profile columns a user insert can collide on,
// checked before email so a profile clash is never reported as a taken email.
var profileKeys = []string{"employee_id", "aadhaar_number", "user_id"}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewLookupError(email, err)
	}
	return &user, nil
}

// Create inserts user together with any attached clerk or citizen profile.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			if column := conflictingColumn(err); column != "" {
				return models.NewInsertionError("user", user.Email, models.NewConflictError("user", user.Email, column))
			}
			return models.NewInsertionError("user", user.Email, models.NewDuplicateError("user", user.Email))
		}
		return models.NewInsertionError("user", user.Email, err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// conflictingColumn names the profile column behind a unique violation, or ""
// when the clash is on the email or cannot be told apart.
func conflictingColumn(err error) string {
	msg := strings.ToLower(err.Error())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg += " " + strings.ToLower(pgErr.ConstraintName+" "+pgErr.TableName+" "+pgErr.Detail)
	}
	if strings.Contains(msg, "users.email") || strings.Contains(msg, "idx_users_email") {
		return ""
	}
	for _, column := range profileKeys {
		if strings.Contains(msg, column) {
			return column
		}
	}
	return ""
}
