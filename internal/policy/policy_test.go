package policy

import (
	"testing"

	"photoshare/internal/models"

	"github.com/stretchr/testify/assert"
)

func user(id uint, role models.Role) *models.User {
	return &models.User{ID: id, Role: role}
}

func TestPostPermissions(t *testing.T) {
	author := user(10, models.RoleUser)
	stranger := user(11, models.RoleUser)
	mod := user(12, models.RoleModerator)
	admin := user(13, models.RoleAdmin)

	const authorID uint = 10

	assert.True(t, CanEditPost(author, authorID))
	assert.False(t, CanEditPost(stranger, authorID))
	assert.True(t, CanEditPost(mod, authorID))
	assert.True(t, CanEditPost(admin, authorID))

	assert.True(t, CanDeletePost(author, authorID))
	assert.False(t, CanDeletePost(stranger, authorID))
	assert.True(t, CanDeletePost(mod, authorID))

	assert.True(t, CanTransformPost(author, authorID))
	assert.False(t, CanTransformPost(stranger, authorID))
	assert.True(t, CanTransformPost(admin, authorID))
}

func TestCommentPermissionsAreAsymmetric(t *testing.T) {
	author := user(20, models.RoleUser)
	mod := user(21, models.RoleModerator)
	admin := user(22, models.RoleAdmin)

	// Edit: author only, regardless of rank.
	assert.True(t, CanEditComment(author, 20))
	assert.False(t, CanEditComment(mod, 20))
	assert.False(t, CanEditComment(admin, 20))

	// Delete: privileged only, never the plain author.
	assert.False(t, CanDeleteComment(author))
	assert.True(t, CanDeleteComment(mod))
	assert.True(t, CanDeleteComment(admin))
}

func TestRatingPermissions(t *testing.T) {
	author := user(30, models.RoleUser)
	viewer := user(31, models.RoleUser)
	mod := user(32, models.RoleModerator)

	// No self-rating, even for privileged roles.
	assert.False(t, CanRate(author, 30))
	assert.True(t, CanRate(viewer, 30))
	assert.False(t, CanRate(mod, 32))

	assert.True(t, CanDeleteRating(viewer, 31))
	assert.False(t, CanDeleteRating(viewer, 30))
	assert.True(t, CanDeleteRating(mod, 30))
}

func TestAdminAccountControls(t *testing.T) {
	bootstrap := user(BootstrapAdminID, models.RoleAdmin)
	admin := user(40, models.RoleAdmin)
	mod := user(41, models.RoleModerator)
	plain := user(42, models.RoleUser)

	// Only admins manage roles and bans.
	assert.False(t, CanChangeRole(mod, 42))
	assert.False(t, CanBan(plain, 41))
	assert.False(t, CanUnban(mod))

	assert.True(t, CanChangeRole(admin, 42))
	assert.True(t, CanBan(admin, 42))
	assert.True(t, CanUnban(admin))

	// The bootstrap admin is untouchable.
	assert.False(t, CanChangeRole(admin, BootstrapAdminID))
	assert.False(t, CanBan(admin, BootstrapAdminID))

	// Admins cannot target themselves.
	assert.False(t, CanChangeRole(admin, admin.ID))
	assert.False(t, CanBan(admin, admin.ID))

	// The bootstrap admin is still bound by the self rule.
	assert.False(t, CanBan(bootstrap, bootstrap.ID))
}
