package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/59-devv/adonis-roleplay/internal/domain/entity"
	repo "github.com/59-devv/adonis-roleplay/internal/domain/repository"
	"github.com/59-devv/adonis-roleplay/internal/infrastructure/memory"
	"github.com/59-devv/adonis-roleplay/pkg/apperr"
	"github.com/59-devv/adonis-roleplay/pkg/helpers"
)

func newTestService() (*Service, *memory.UserRepository) {
	store := memory.NewUserRepository()
	svc := NewService(store, nil, 0, nil, nil, "", nil, "", nil)
	return svc, store
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, store := newTestService()

		u, err := svc.Register(ctx, RegisterInput{
			Email:    "a@b.com",
			Username: "a",
			Password: "secret",
			Avatar:   "https://x/1",
		})
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, "a@b.com", u.Email)
		require.Equal(t, "a", u.Username)
		require.Equal(t, "https://x/1", u.Avatar)

		stored, err := store.GetByID(u.ID)
		require.NoError(t, err)
		require.NotEqual(t, "secret", stored.Password)
		require.True(t, helpers.CompareHashAndPassword(stored.Password, "secret"))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "other", Password: "test"})
		require.ErrorIs(t, err, apperr.ErrEmailInUse)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Email: "other@b.com", Username: "a", Password: "test"})
		require.ErrorIs(t, err, apperr.ErrUsernameInUse)
	})

	t.Run("email conflict wins when both collide", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
		require.ErrorIs(t, err, apperr.ErrEmailInUse)
	})

	t.Run("maps store constraint violation to conflict", func(t *testing.T) {
		store := memory.NewUserRepository()
		svc := NewService(&racyRepo{UserRepository: store}, nil, 0, nil, nil, "", nil, "", nil)

		require.NoError(t, store.Create(&entity.User{Email: "a@b.com", Username: "a", Password: "x"}))

		// The pre-check sees no conflict; the insert itself collides.
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "b", Password: "test"})
		require.ErrorIs(t, err, apperr.ErrEmailInUse)
	})
}

// racyRepo hides existing rows from the lookup path so the duplicate is
// only caught by the store's own uniqueness enforcement, the way a lost
// check-then-insert race plays out.
type racyRepo struct {
	*memory.UserRepository
}

func (r *racyRepo) GetByEmail(string) (*entity.User, error)    { return nil, repo.ErrNotFound }
func (r *racyRepo) GetByUsername(string) (*entity.User, error) { return nil, repo.ErrNotFound }

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Update(ctx, "missing", UpdateInput{Email: "a@b.com", Password: "test"})
		require.ErrorIs(t, err, apperr.ErrUserNotFound)
	})

	t.Run("rehashes password even when unchanged", func(t *testing.T) {
		svc, store := newTestService()

		created, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
		require.NoError(t, err)
		before, err := store.GetByID(created.ID)
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, UpdateInput{Email: "a@b.com", Password: "test"})
		require.NoError(t, err)

		after, err := store.GetByID(created.ID)
		require.NoError(t, err)
		require.NotEqual(t, before.Password, after.Password)
		require.True(t, helpers.CompareHashAndPassword(after.Password, "test"))
	})

	t.Run("email overwritten, avatar only when set", func(t *testing.T) {
		svc, store := newTestService()

		created, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test", Avatar: "https://x/1"})
		require.NoError(t, err)

		u, err := svc.Update(ctx, created.ID, UpdateInput{Email: "new@b.com", Password: "test"})
		require.NoError(t, err)
		require.Equal(t, "new@b.com", u.Email)
		require.Equal(t, "https://x/1", u.Avatar) // empty avatar leaves stored value

		u, err = svc.Update(ctx, created.ID, UpdateInput{Email: "new@b.com", Avatar: "https://x/2", Password: "test"})
		require.NoError(t, err)
		require.Equal(t, "https://x/2", u.Avatar)

		stored, err := store.GetByID(created.ID)
		require.NoError(t, err)
		require.Equal(t, "a", stored.Username) // username is write-once
	})

	t.Run("identical payloads converge", func(t *testing.T) {
		svc, _ := newTestService()

		created, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
		require.NoError(t, err)

		in := UpdateInput{Email: "same@b.com", Avatar: "https://x/9", Password: "test"}
		first, err := svc.Update(ctx, created.ID, in)
		require.NoError(t, err)
		second, err := svc.Update(ctx, created.ID, in)
		require.NoError(t, err)

		require.Equal(t, first.Email, second.Email)
		require.Equal(t, first.Avatar, second.Avatar)
	})
}

func TestGetProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService()
	created, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "test"})
	require.NoError(t, err)

	u, err := svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, u.ID)

	_, err = svc.GetProfile(ctx, "missing")
	require.ErrorIs(t, err, apperr.ErrUserNotFound)
}
