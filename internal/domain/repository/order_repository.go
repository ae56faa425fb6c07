package repository

import (
	"context"

	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// OrderRepository port de persistance des commandes VN.
// Les lectures retournent (nil, nil) quand la commande n'existe pas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	// Update persiste la fiche commande complète (hors avancement du circuit).
	Update(ctx context.Context, order *entity.Order) error
	// UpdateStageState persiste status, instantanés, VIN et updated_at en UNE
	// seule écriture : un avancement partiellement persisté violerait l'invariant.
	UpdateStageState(ctx context.Context, order *entity.Order) error
	// UpdateSnapshots persiste uniquement les instantanés (auto-sauvegarde de champ).
	UpdateSnapshots(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	CountByStage(ctx context.Context) (map[workflow.Stage]int, error)
	CountByLocation(ctx context.Context) (map[string]int, error)
}
