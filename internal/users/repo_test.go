package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  university_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func createTestUser(t *testing.T, repo *Repository, email string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	// sqlite has no gen_random_uuid, assign explicitly
	user := CreateUserDTO{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Léa",
		LastName:     "Martin",
	}.ToModel()
	user.ID = id
	require.NoError(t, repo.db.Create(user).Error)
	return id
}

func TestRepositoryFindByEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()
	id := createTestUser(t, repo, "lea@example.com")

	user, err := repo.FindByEmail(ctx, "lea@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.IsActive)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryFindByID(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()
	id := createTestUser(t, repo, "lea@example.com")

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "lea@example.com", user.Email)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()
	id := createTestUser(t, repo, "lea@example.com")

	stamp := time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, id, stamp))

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.True(t, user.LastLoginAt.Equal(stamp))
}

func TestRepositoryCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()
	createTestUser(t, repo, "lea@example.com")

	_, err := repo.Create(ctx, CreateUserDTO{
		Email:        "lea@example.com",
		PasswordHash: "hash",
		FirstName:    "Autre",
		LastName:     "Personne",
	})
	require.Error(t, err)
}
