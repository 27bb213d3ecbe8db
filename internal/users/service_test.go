package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := newUsersTestService(t)

	_, err := svc.GetUser(context.Background(), uuid.New())
	require.Error(t, err)

	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListUsersRejectsInvalidRoleFilter(t *testing.T) {
	svc, _ := newUsersTestService(t)

	role := "superuser"
	_, err := svc.ListUsers(context.Background(), pagination.Params{Limit: 10}, UserListFilters{Role: &role})
	require.Error(t, err)

	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSetUserActiveTogglesAndShortCircuits(t *testing.T) {
	svc, repo := newUsersTestService(t)
	ctx := context.Background()

	user := mustCreateTestUser(t, repo.db, "ada@example.com", enums.UserRoleCustomer, time.Now().UTC())

	deactivated, err := svc.SetUserActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// Setting the same state again is a no-op, not an error.
	again, err := svc.SetUserActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, again.IsActive)
}

func TestSetUserRolePromotes(t *testing.T) {
	svc, repo := newUsersTestService(t)
	ctx := context.Background()

	user := mustCreateTestUser(t, repo.db, "ops@example.com", enums.UserRoleCustomer, time.Now().UTC())

	promoted, err := svc.SetUserRole(ctx, user.ID, enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin.String(), promoted.Role)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, stored.Role)
}

func TestSetUserRoleRejectsUnknownRole(t *testing.T) {
	svc, repo := newUsersTestService(t)

	user := mustCreateTestUser(t, repo.db, "ada@example.com", enums.UserRoleCustomer, time.Now().UTC())

	_, err := svc.SetUserRole(context.Background(), user.ID, enums.UserRole("superuser"))
	require.Error(t, err)

	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
