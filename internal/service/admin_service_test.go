package service

import (
	"context"
	"testing"

	"photoshare/internal/models"
	"photoshare/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ChangeRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := &models.User{ID: 2, Role: models.RoleAdmin}

	t.Run("invalid role", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(noopUserRepo())
		_, err := svc.ChangeRole(ctx, admin, 3, models.Role("superuser"))
		assertValidationError(t, err)
	})

	t.Run("moderator cannot change roles", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(noopUserRepo())
		_, err := svc.ChangeRole(ctx, &models.User{ID: 2, Role: models.RoleModerator}, 3, models.RoleModerator)
		assertPermissionDenied(t, err)
	})

	t.Run("bootstrap admin is protected", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(noopUserRepo())
		_, err := svc.ChangeRole(ctx, admin, policy.BootstrapAdminID, models.RoleUser)
		assertPermissionDenied(t, err)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(noopUserRepo())
		_, err := svc.ChangeRole(ctx, admin, admin.ID, models.RoleUser)
		assertPermissionDenied(t, err)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleUser}, nil
		}
		svc := NewAdminService(users)
		target, err := svc.ChangeRole(ctx, admin, 3, models.RoleModerator)
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, target.Role)
	})
}

func TestAdminService_Ban(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := &models.User{ID: 2, Role: models.RoleAdmin}

	activeUser := func() *userRepoStub {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			refresh := "live-refresh-token"
			return &models.User{ID: id, Role: models.RoleUser, IsActive: true, RefreshToken: &refresh}, nil
		}
		return users
	}

	t.Run("ban deactivates and revokes the session", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(activeUser())
		target, err := svc.Ban(ctx, admin, 3)
		require.NoError(t, err)
		assert.False(t, target.IsActive)
		assert.Nil(t, target.RefreshToken)
	})

	t.Run("bootstrap admin cannot be banned", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(activeUser())
		_, err := svc.Ban(ctx, admin, policy.BootstrapAdminID)
		assertPermissionDenied(t, err)
	})

	t.Run("admin cannot ban themself", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(activeUser())
		_, err := svc.Ban(ctx, admin, admin.ID)
		assertPermissionDenied(t, err)
	})

	t.Run("double ban is a conflict", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleUser, IsActive: false}, nil
		}
		svc := NewAdminService(users)
		_, err := svc.Ban(ctx, admin, 3)
		assertConflict(t, err)
	})

	t.Run("moderator cannot ban", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(activeUser())
		_, err := svc.Ban(ctx, &models.User{ID: 4, Role: models.RoleModerator}, 3)
		assertPermissionDenied(t, err)
	})
}

func TestAdminService_Unban(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := &models.User{ID: 2, Role: models.RoleAdmin}

	bannedUser := func() *userRepoStub {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleUser, IsActive: false}, nil
		}
		return users
	}

	t.Run("unban reactivates", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(bannedUser())
		target, err := svc.Unban(ctx, admin, 3)
		require.NoError(t, err)
		assert.True(t, target.IsActive)
	})

	t.Run("moderator cannot unban", func(t *testing.T) {
		t.Parallel()
		svc := NewAdminService(bannedUser())
		_, err := svc.Unban(ctx, &models.User{ID: 4, Role: models.RoleModerator}, 3)
		assertPermissionDenied(t, err)
	})

	t.Run("unbanning an active account is a conflict", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsActive: true}, nil
		}
		svc := NewAdminService(users)
		_, err := svc.Unban(ctx, admin, 3)
		assertConflict(t, err)
	})
}
