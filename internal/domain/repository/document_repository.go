package repository

import (
	"context"

	"github.com/oranauto/concession-api/internal/domain/entity"
)

// DocumentRepository port de persistance des fiches de document.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	DeleteByOrder(ctx context.Context, orderID string) error
}
