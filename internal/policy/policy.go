// Package policy centralizes the per-resource permission rules.
//
// Every mutating operation on posts, comments, ratings, and accounts is
// decided here so the rules live in one place instead of being scattered
// across handlers. The rules are deliberately asymmetric in places:
// comments may be edited only by their author but deleted only by
// moderators and admins.
package policy

import "photoshare/internal/models"

// BootstrapAdminID is the ID of the first account created in a fresh
// database. It is promoted to admin on signup and can never be banned
// or demoted, so the instance always has a working administrator.
const BootstrapAdminID uint = 1

// CanEditPost reports whether actor may change the post's description.
func CanEditPost(actor *models.User, authorID uint) bool {
	return actor.ID == authorID || actor.IsPrivileged()
}

// CanDeletePost reports whether actor may delete the post.
func CanDeletePost(actor *models.User, authorID uint) bool {
	return actor.ID == authorID || actor.IsPrivileged()
}

// CanTransformPost reports whether actor may derive a transformed copy
// of the post.
func CanTransformPost(actor *models.User, authorID uint) bool {
	return actor.ID == authorID || actor.IsPrivileged()
}

// CanEditComment reports whether actor may edit the comment.
// Only the author may edit; moderators and admins may not.
func CanEditComment(actor *models.User, commentAuthorID uint) bool {
	return actor.ID == commentAuthorID
}

// CanDeleteComment reports whether actor may delete the comment.
// Only moderators and admins may delete; the author may not.
func CanDeleteComment(actor *models.User) bool {
	return actor.IsPrivileged()
}

// CanRate reports whether actor may rate the post. Authors cannot rate
// their own images.
func CanRate(actor *models.User, imageAuthorID uint) bool {
	return actor.ID != imageAuthorID
}

// CanDeleteRating reports whether actor may remove the rating.
func CanDeleteRating(actor *models.User, ratingOwnerID uint) bool {
	return actor.ID == ratingOwnerID || actor.IsPrivileged()
}

// CanChangeRole reports whether actor may change target's role.
// Admins only; the bootstrap admin and the actor's own account are
// off limits.
func CanChangeRole(actor *models.User, targetID uint) bool {
	if actor.Role != models.RoleAdmin {
		return false
	}
	if targetID == BootstrapAdminID || targetID == actor.ID {
		return false
	}
	return true
}

// CanBan reports whether actor may deactivate target's account.
func CanBan(actor *models.User, targetID uint) bool {
	if actor.Role != models.RoleAdmin {
		return false
	}
	if targetID == BootstrapAdminID || targetID == actor.ID {
		return false
	}
	return true
}

// CanUnban reports whether actor may reactivate a banned account.
func CanUnban(actor *models.User) bool {
	return actor.Role == models.RoleAdmin
}
