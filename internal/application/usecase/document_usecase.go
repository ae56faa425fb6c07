package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/repository"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// DocumentUseCase fiches de document rattachées aux commandes. Le transport du
// fichier lui-même relève du stockage externe ; on ne gère ici que la fiche.
type DocumentUseCase struct {
	docs   repository.DocumentRepository
	orders repository.OrderRepository
}

// NewDocumentUseCase construit le cas d'usage.
func NewDocumentUseCase(docs repository.DocumentRepository, orders repository.OrderRepository) *DocumentUseCase {
	return &DocumentUseCase{docs: docs, orders: orders}
}

// Create enregistre la fiche d'un fichier déposé. L'étape est une référence
// explicite posée ici ; le rôle doit avoir accès à cette étape.
func (uc *DocumentUseCase) Create(ctx context.Context, acting workflow.ActingUser, orderID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	stage := workflow.Stage(in.Stage)
	if !stage.IsValid() {
		return nil, domain.ErrEtapeInconnue
	}
	if !workflow.CanAccessStage(acting.Role, stage) {
		return nil, domain.ErrAccesRefuse
	}
	if !entity.ValidDocumentType(in.DocumentType) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	doc := &entity.Document{
		ID:           uuid.New().String(),
		OrderID:      orderID,
		Stage:        stage,
		DocumentType: in.DocumentType,
		DocumentName: in.DocumentName,
		DocumentURL:  in.DocumentURL,
		UploadedBy:   acting.ID,
		CreatedAt:    time.Now(),
	}
	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// ListByOrder fiches de document d'une commande.
func (uc *DocumentUseCase) ListByOrder(ctx context.Context, orderID string) ([]dto.DocumentResponse, error) {
	docs, err := uc.docs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *toDocumentResponse(d))
	}
	return out, nil
}

// Delete supprime une fiche. Le rôle doit avoir accès à l'étape du document.
func (uc *DocumentUseCase) Delete(ctx context.Context, acting workflow.ActingUser, id string) error {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	if !workflow.CanAccessStage(acting.Role, doc.Stage) {
		return domain.ErrAccesRefuse
	}
	return uc.docs.Delete(ctx, id)
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}
	return &dto.DocumentResponse{
		ID:           d.ID,
		OrderID:      d.OrderID,
		Stage:        d.Stage,
		DocumentType: d.DocumentType,
		DocumentName: d.DocumentName,
		DocumentURL:  d.DocumentURL,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
	}
}
