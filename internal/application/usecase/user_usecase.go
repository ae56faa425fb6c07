package usecase

import (
	"context"
	"time"

	"github.com/oranauto/concession-api/internal/application/auth"
	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/repository"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// UserUseCase administration des comptes (liste, changement de rôle, suppression).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construit le cas d'usage avec le port de persistance.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List page d'utilisateurs. Réservé à l'administration des comptes.
func (uc *UserUseCase) List(ctx context.Context, acting workflow.ActingUser, page dto.PageRequest) (*dto.UserListResponse, error) {
	if !workflow.CanManageUsers(acting.Role) {
		return nil, domain.ErrAccesRefuse
	}
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Users: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// UpdateRole change le rôle d'un utilisateur (un seul rôle à la fois).
// Réservé à l'admin ; le nouveau rôle doit appartenir à l'ensemble fermé.
func (uc *UserUseCase) UpdateRole(ctx context.Context, acting workflow.ActingUser, id string, in dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	if acting.Role != workflow.RoleAdmin {
		return nil, domain.ErrAccesRefuse
	}
	role := workflow.Role(in.Role)
	if !role.IsValid() {
		return nil, domain.ErrRoleInconnu
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Delete supprime un compte. Réservé à l'admin ; pas d'auto-suppression.
func (uc *UserUseCase) Delete(ctx context.Context, acting workflow.ActingUser, id string) error {
	if acting.Role != workflow.RoleAdmin {
		return domain.ErrAccesRefuse
	}
	if acting.ID == id {
		return domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(ctx, id)
}
