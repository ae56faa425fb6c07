package usecase

import (
	"context"

	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/repository"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// DeliveryNoteUseCase génération du bon de livraison PDF d'une commande.
type DeliveryNoteUseCase struct {
	orders    repository.OrderRepository
	generator DeliveryNoteGenerator
}

// NewDeliveryNoteUseCase construit le cas d'usage.
func NewDeliveryNoteUseCase(orders repository.OrderRepository, generator DeliveryNoteGenerator) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{orders: orders, generator: generator}
}

// Generate produit le PDF. Le rôle doit avoir accès à l'étape LIVRAISON.
// Retourne les octets du document et le nom de fichier suggéré.
func (uc *DeliveryNoteUseCase) Generate(ctx context.Context, acting workflow.ActingUser, orderID string) ([]byte, string, error) {
	if !workflow.CanAccessStage(acting.Role, workflow.StageLivraison) {
		return nil, "", domain.ErrAccesRefuse
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	b, err := uc.generator.Generate(order)
	if err != nil {
		return nil, "", err
	}
	return b, "bon-livraison-" + order.OrderNumber + ".pdf", nil
}
