package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/59-devv/adonis-roleplay/internal/domain/entity"
	"github.com/59-devv/adonis-roleplay/internal/domain/repository"
)

// UserRepository is an in-memory store. Each test scenario gets a fresh
// instance, which stands in for the transactional rollback harness the
// database-backed suites use. It enforces the same unique email and
// username guarantees as the postgres schema.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}

	now := time.Now()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}

	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if other.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}

	u.CreatedAt = stored.CreatedAt
	u.UpdatedAt = time.Now()

	cp := *u
	r.users[u.ID] = &cp
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
