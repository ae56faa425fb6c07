package vn

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/repository"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// Engine orchestre l'avancement du circuit VN : lecture de l'étape courante,
// validation des critères de sortie, passage au successeur et persistance de
// l'instantané. Aucune reprise automatique : un échec d'écriture remonte à
// l'appelant, qui peut rejouer l'action.
type Engine struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewEngine construit le moteur du circuit.
func NewEngine(orders repository.OrderRepository) *Engine {
	return &Engine{orders: orders, now: time.Now}
}

// NewEngineWithClock variante avec horloge injectée (tests).
func NewEngineWithClock(orders repository.OrderRepository, now func() time.Time) *Engine {
	return &Engine{orders: orders, now: now}
}

// CompleteStage clôture l'étape courante de la commande et avance au successeur.
// Statut, instantanés et VIN sont persistés en une seule écriture.
// Erreurs : ErrAccesRefuse, ErrValidationIncomplete (avec le critère manquant),
// ErrEtapeTerminale (non-opération), ErrNotFound.
func (e *Engine) CompleteStage(ctx context.Context, orderID string, acting workflow.ActingUser) (*entity.Order, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	stage := order.Status
	if !stage.IsValid() {
		// Incohérence de données, pas une erreur utilisateur : signal opérateur.
		log.Error().Str("order_id", orderID).Str("status", stage.String()).
			Msg("statut hors référentiel sur la commande")
		return nil, fmt.Errorf("commande %s: statut %q: %w", orderID, stage, domain.ErrEtapeInconnue)
	}
	if !workflow.CanAccessStage(acting.Role, stage) {
		return nil, domain.ErrAccesRefuse
	}

	data := order.Snapshots.DataFor(stage)
	if !workflow.CanCompleteStage(stage, data, acting) {
		return nil, workflow.MissingRequirement(stage, data)
	}

	next, ok := workflow.Successor(stage)
	if !ok {
		return order, domain.ErrEtapeTerminale
	}

	snap, ok := order.Snapshots.Ensure(stage)
	if !ok {
		return nil, fmt.Errorf("commande %s: étape %q: %w", orderID, stage, domain.ErrEtapeInconnue)
	}
	completedAt := e.now()
	snap.CompletedAt = &completedAt

	// La clôture de FACTURATION recopie la saisie sur la fiche commande.
	if fact, isFact := snap.Data.(*workflow.FacturationData); isFact {
		order.VehicleVIN = fact.VIN
		if fact.TropPercu == "oui" && fact.MontantTropPercu != "" {
			if montant, perr := decimal.NewFromString(fact.MontantTropPercu); perr == nil {
				order.TropPercu = decimal.NewNullDecimal(montant)
			} else {
				log.Warn().Str("order_id", orderID).Str("montant", fact.MontantTropPercu).
					Msg("montant trop-perçu illisible, non reporté sur la fiche")
			}
		}
	}

	order.Status = next.Name
	order.UpdatedAt = completedAt
	if err := e.orders.UpdateStageState(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStageField fusionne un champ dans la saisie de l'étape et persiste
// immédiatement (auto-sauvegarde : chaque modification est durable sans action
// « enregistrer » explicite). L'étape doit être au niveau ou en amont du statut
// courant, sinon l'invariant des instantanés serait violé.
func (e *Engine) UpdateStageField(ctx context.Context, orderID string, stage workflow.Stage, field string, value []byte, acting workflow.ActingUser) (*entity.Order, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("étape %q: %w", stage, domain.ErrEtapeInconnue)
	}
	if !workflow.CanAccessStage(acting.Role, stage) {
		return nil, domain.ErrAccesRefuse
	}
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if workflow.IndexOf(stage) > workflow.IndexOf(order.Status) {
		return nil, fmt.Errorf("étape %s pas encore atteinte: %w", stage, domain.ErrInvalidInput)
	}

	snap, ok := order.Snapshots.Ensure(stage)
	if !ok {
		return nil, fmt.Errorf("étape %q: %w", stage, domain.ErrEtapeInconnue)
	}
	if err := snap.Data.Set(field, value); err != nil {
		return nil, err
	}
	order.UpdatedAt = e.now()
	if err := e.orders.UpdateSnapshots(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// OverrideStatus force le statut à une étape arbitraire, hors séquence et hors
// validation. Échappatoire administrative distincte de l'avancement normal ;
// tracée en warn pour l'audit.
func (e *Engine) OverrideStatus(ctx context.Context, orderID string, status workflow.Stage, acting workflow.ActingUser) (*entity.Order, error) {
	if !workflow.CanOverrideStatus(acting.Role) {
		return nil, domain.ErrAccesRefuse
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("étape %q: %w", status, domain.ErrEtapeInconnue)
	}
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	log.Warn().Str("order_id", orderID).Str("user_id", acting.ID).
		Str("from", order.Status.String()).Str("to", status.String()).
		Msg("forçage administratif du statut")

	order.Status = status
	order.UpdatedAt = e.now()
	if err := e.orders.UpdateStageState(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
