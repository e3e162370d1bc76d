package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewUserRepository(db.DB)
	ctx := context.Background()

	original := db.CreateTestUser(t, models.UserRoleAdmin, time.Now())

	found, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, found.ID)
	assert.Equal(t, original.Email, found.Email)
	assert.Equal(t, models.UserRoleAdmin, found.Role)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewUserRepository(db.DB)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewUserRepository(db.DB)
	ctx := context.Background()

	original := db.CreateTestUser(t, models.UserRoleTenant, time.Now())

	found, err := repo.GetByEmail(ctx, original.Email)
	require.NoError(t, err)
	assert.Equal(t, original.ID, found.ID)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
