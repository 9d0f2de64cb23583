package service

import (
	"context"

	"photoshare/internal/models"
	"photoshare/internal/policy"
	"photoshare/internal/repository"
)

// AdminService implements role changes and account bans.
type AdminService struct {
	users repository.UserRepository
}

// NewAdminService creates an AdminService.
func NewAdminService(users repository.UserRepository) *AdminService {
	return &AdminService{users: users}
}

// accountControlDenial picks the precise denial message for a refused
// role change or ban.
func accountControlDenial(actor *models.User, targetID uint) *models.AppError {
	switch {
	case actor.Role != models.RoleAdmin:
		return models.NewPermissionDeniedError("Admin privileges required")
	case targetID == policy.BootstrapAdminID:
		return models.NewPermissionDeniedError("The primary admin account cannot be modified")
	case targetID == actor.ID:
		return models.NewPermissionDeniedError("You cannot modify your own account")
	default:
		return models.NewPermissionDeniedError("Permission denied")
	}
}

// ChangeRole sets the target account's role.
func (s *AdminService) ChangeRole(ctx context.Context, actor *models.User, targetID uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}
	if !policy.CanChangeRole(actor, targetID) {
		return nil, accountControlDenial(actor, targetID)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.Role = role
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Ban deactivates the target account and revokes its refresh token so
// existing sessions cannot be extended.
func (s *AdminService) Ban(ctx context.Context, actor *models.User, targetID uint) (*models.User, error) {
	if !policy.CanBan(actor, targetID) {
		return nil, accountControlDenial(actor, targetID)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, models.NewConflictError("Account is already banned")
	}

	target.IsActive = false
	target.RefreshToken = nil
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Unban reactivates a banned account. Unlike Ban, any account can be the
// target: an admin may unban themself only in the sense that the rule
// never arises, since a banned admin cannot authenticate.
func (s *AdminService) Unban(ctx context.Context, actor *models.User, targetID uint) (*models.User, error) {
	if !policy.CanUnban(actor) {
		return nil, models.NewPermissionDeniedError("Admin privileges required")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsActive {
		return nil, models.NewConflictError("Account is not banned")
	}

	target.IsActive = true
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}
