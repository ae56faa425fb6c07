package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/repository"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// OrderRepository implémentation PostgreSQL du dépôt des commandes VN.
// Les instantanés d'étape sont stockés en JSONB et redécodés via le type
// workflow.StageSnapshots, qui restitue les enregistrements typés par étape.
type OrderRepository struct {
	db dbtx
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(db dbtx) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, customer_name, customer_phone, customer_email, customer_address,
	vehicle_model, vehicle_color, vehicle_vin, status, location,
	total_price, advance_payment, remaining_balance, trop_percu,
	stage_snapshots, created_by, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	snapshots, err := marshalSnapshots(order.Snapshots)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = r.db.Exec(ctx, query,
		order.ID, order.OrderNumber,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.CustomerAddress,
		order.VehicleModel, order.VehicleColor, order.VehicleVIN,
		string(order.Status), order.Location,
		order.TotalPrice, order.AdvancePayment, order.RemainingBalance, tropPercuParam(order),
		snapshots, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insérer la commande: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lire la commande: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("lister les commandes: %w", err)
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("lire une ligne commande: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $2, customer_phone = $3, customer_email = $4, customer_address = $5,
		    vehicle_model = $6, vehicle_color = $7, location = $8,
		    total_price = $9, advance_payment = $10, remaining_balance = $11,
		    updated_at = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		order.ID,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.CustomerAddress,
		order.VehicleModel, order.VehicleColor, order.Location,
		order.TotalPrice, order.AdvancePayment, order.RemainingBalance,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("mettre à jour la commande: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStageState persiste l'avancement du circuit en une seule instruction :
// statut, instantanés, VIN et trop-perçu partent dans le même UPDATE.
func (r *OrderRepository) UpdateStageState(ctx context.Context, order *entity.Order) error {
	snapshots, err := marshalSnapshots(order.Snapshots)
	if err != nil {
		return err
	}

	query := `
		UPDATE orders
		SET status = $2, stage_snapshots = $3, vehicle_vin = $4, trop_percu = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		order.ID, string(order.Status), snapshots, order.VehicleVIN, tropPercuParam(order), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("avancer la commande: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) UpdateSnapshots(ctx context.Context, order *entity.Order) error {
	snapshots, err := marshalSnapshots(order.Snapshots)
	if err != nil {
		return err
	}

	query := `UPDATE orders SET stage_snapshots = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, order.ID, snapshots, time.Now())
	if err != nil {
		return fmt.Errorf("sauvegarder les instantanés: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("supprimer la commande: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) CountByStage(ctx context.Context) (map[workflow.Stage]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("compter par étape: %w", err)
	}
	defer rows.Close()

	counts := make(map[workflow.Stage]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("lire un comptage par étape: %w", err)
		}
		counts[workflow.Stage(status)] = n
	}
	return counts, rows.Err()
}

func (r *OrderRepository) CountByLocation(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT location, COUNT(*) FROM orders GROUP BY location`)
	if err != nil {
		return nil, fmt.Errorf("compter par emplacement: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var loc string
		var n int
		if err := rows.Scan(&loc, &n); err != nil {
			return nil, fmt.Errorf("lire un comptage par emplacement: %w", err)
		}
		counts[loc] = n
	}
	return counts, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		order     entity.Order
		status    string
		tropPercu *decimal.Decimal
		snapshots []byte
	)

	err := row.Scan(
		&order.ID, &order.OrderNumber,
		&order.CustomerName, &order.CustomerPhone, &order.CustomerEmail, &order.CustomerAddress,
		&order.VehicleModel, &order.VehicleColor, &order.VehicleVIN,
		&status, &order.Location,
		&order.TotalPrice, &order.AdvancePayment, &order.RemainingBalance, &tropPercu,
		&snapshots, &order.CreatedBy, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = workflow.Stage(status)
	if tropPercu != nil {
		order.TropPercu = decimal.NullDecimal{Decimal: *tropPercu, Valid: true}
	}
	if len(snapshots) > 0 {
		if err := json.Unmarshal(snapshots, &order.Snapshots); err != nil {
			return nil, fmt.Errorf("décoder les instantanés: %w", err)
		}
	}
	if order.Snapshots == nil {
		order.Snapshots = make(workflow.StageSnapshots)
	}
	return &order, nil
}

func marshalSnapshots(s workflow.StageSnapshots) ([]byte, error) {
	if s == nil {
		return []byte(`{}`), nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoder les instantanés: %w", err)
	}
	return raw, nil
}

func tropPercuParam(order *entity.Order) *decimal.Decimal {
	if !order.TropPercu.Valid {
		return nil
	}
	return &order.TropPercu.Decimal
}
