package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oranauto/concession-api/internal/application/usecase"
	"github.com/oranauto/concession-api/internal/domain/repository"
)

// TxRunner exécute une fonction métier dans une transaction PostgreSQL,
// en lui passant des dépôts attachés à cette transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

var _ usecase.OrderTxRunner = (*TxRunner)(nil)

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (t *TxRunner) Run(ctx context.Context, fn func(orders repository.OrderRepository, docs repository.DocumentRepository) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ouvrir la transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewOrderRepository(tx), NewDocumentRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("valider la transaction: %w", err)
	}
	return nil
}
