package postgresql_test

import (
	"context"
	"testing"

	"github.com/biopulse/attendance-backend-go/internal/domain/user"
	"github.com/biopulse/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: string(hash), Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	byEmail, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(byEmail.PasswordHash), []byte("password123")))

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, byID.Role)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, user.User{Email: "hr@example.com", PasswordHash: "x", Role: user.RoleHR})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{Email: "hr@example.com", PasswordHash: "y", Role: user.RoleHR})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
