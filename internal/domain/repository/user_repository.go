package repository

import (
	"errors"

	"github.com/59-devv/adonis-roleplay/internal/domain/entity"
)

// Sentinel errors shared by every store implementation. The postgres
// driver maps unique-constraint violations (SQLSTATE 23505) onto the
// duplicate sentinels so a lost check-then-insert race still surfaces as
// a conflict instead of a generic failure.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// UserRepository defines the interface for user-related store operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(u *entity.User) error
}
