package repository

import (
	"context"

	"github.com/oranauto/concession-api/internal/domain/entity"
)

// UserRepository port de persistance des utilisateurs.
// Les lectures retournent (nil, nil) quand l'utilisateur n'existe pas.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}
