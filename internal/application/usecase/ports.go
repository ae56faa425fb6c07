package usecase

import (
	"context"

	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/repository"
)

// OrderTxRunner exécute un callback avec des dépôts attachés à une même
// transaction. Utilisé pour la suppression commande + documents.
type OrderTxRunner interface {
	Run(ctx context.Context, fn func(
		orders repository.OrderRepository,
		docs repository.DocumentRepository,
	) error) error
}

// DeliveryNoteGenerator produit le bon de livraison PDF d'une commande.
// Implémenté côté infrastructure (maroto).
type DeliveryNoteGenerator interface {
	Generate(order *entity.Order) ([]byte, error)
}
