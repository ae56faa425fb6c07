package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/repository"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// DocumentRepository implémentation PostgreSQL des fiches documentaires.
type DocumentRepository struct {
	db dbtx
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository(db dbtx) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, order_id, stage, document_type, document_name, document_url, uploaded_by, created_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.OrderID, string(doc.Stage),
		doc.DocumentType, doc.DocumentName, doc.DocumentURL,
		doc.UploadedBy, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insérer le document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lire le document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("lister les documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*entity.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("lire une ligne document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("supprimer le document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) DeleteByOrder(ctx context.Context, orderID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("supprimer les documents de la commande: %w", err)
	}
	return nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		doc   entity.Document
		stage string
	)
	err := row.Scan(
		&doc.ID, &doc.OrderID, &stage,
		&doc.DocumentType, &doc.DocumentName, &doc.DocumentURL,
		&doc.UploadedBy, &doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Stage = workflow.Stage(stage)
	return &doc, nil
}
