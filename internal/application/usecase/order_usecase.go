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

// OrderUseCase règles de gestion de la fiche commande VN (hors circuit, qui
// relève du moteur dans application/vn).
type OrderUseCase struct {
	orders repository.OrderRepository
	tx     OrderTxRunner
}

// NewOrderUseCase construit le cas d'usage avec le port de persistance.
func NewOrderUseCase(orders repository.OrderRepository, tx OrderTxRunner) *OrderUseCase {
	return &OrderUseCase{orders: orders, tx: tx}
}

// Create ouvre une commande à la première étape du circuit.
func (uc *OrderUseCase) Create(ctx context.Context, acting workflow.ActingUser, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !workflow.CanCreateOrder(acting.Role) {
		return nil, domain.ErrAccesRefuse
	}
	if !entity.ValidLocation(in.Location) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		OrderNumber:     in.OrderNumber,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		CustomerAddress: in.CustomerAddress,
		VehicleModel:    in.VehicleModel,
		VehicleColor:    in.VehicleColor,
		Status:          workflow.FirstStage(),
		Location:        in.Location,
		TotalPrice:      in.TotalPrice,
		AdvancePayment:  in.AdvancePayment,
		CreatedBy:       acting.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.ComputeRemainingBalance()
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// GetByID retourne la fiche complète, instantanés compris.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return ToOrderResponse(order), nil
}

// List retourne une page de commandes.
func (uc *OrderUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	orders, err := uc.orders.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Orders: out,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifie la fiche (client, véhicule, montants). Le statut et les
// instantanés ne passent jamais par ici.
func (uc *OrderUseCase) Update(ctx context.Context, acting workflow.ActingUser, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if !workflow.CanEditOrder(acting.Role) {
		return nil, domain.ErrAccesRefuse
	}
	if !entity.ValidLocation(in.Location) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	order.CustomerName = in.CustomerName
	order.CustomerPhone = in.CustomerPhone
	order.CustomerEmail = in.CustomerEmail
	order.CustomerAddress = in.CustomerAddress
	order.VehicleModel = in.VehicleModel
	order.VehicleColor = in.VehicleColor
	order.Location = in.Location
	order.TotalPrice = in.TotalPrice
	order.AdvancePayment = in.AdvancePayment
	order.ComputeRemainingBalance()
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// Delete supprime définitivement la commande et ses fiches de document,
// dans une même transaction. Réservé à l'admin.
func (uc *OrderUseCase) Delete(ctx context.Context, acting workflow.ActingUser, id string) error {
	if !workflow.CanDeleteOrder(acting.Role) {
		return domain.ErrAccesRefuse
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return uc.tx.Run(ctx, func(orders repository.OrderRepository, docs repository.DocumentRepository) error {
		if err := docs.DeleteByOrder(ctx, id); err != nil {
			return err
		}
		return orders.Delete(ctx, id)
	})
}

// Stats répartition des commandes par étape et par emplacement.
func (uc *OrderUseCase) Stats(ctx context.Context) (*dto.OrderStatsResponse, error) {
	byStage, err := uc.orders.CountByStage(ctx)
	if err != nil {
		return nil, err
	}
	byLocation, err := uc.orders.CountByLocation(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderStatsResponse{
		ByStage:    make(map[string]int, len(byStage)),
		ByLocation: byLocation,
	}
	// Toutes les étapes figurent dans la réponse, même à zéro.
	for _, info := range workflow.Stages {
		out.ByStage[info.Name.String()] = byStage[info.Name]
	}
	return out, nil
}

// ToOrderResponse projette l'entité en réponse API.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		CustomerEmail:    o.CustomerEmail,
		CustomerAddress:  o.CustomerAddress,
		VehicleModel:     o.VehicleModel,
		VehicleColor:     o.VehicleColor,
		VehicleVIN:       o.VehicleVIN,
		Status:           o.Status,
		Location:         o.Location,
		TotalPrice:       o.TotalPrice,
		AdvancePayment:   o.AdvancePayment,
		RemainingBalance: o.RemainingBalance,
		Snapshots:        o.Snapshots,
		CreatedBy:        o.CreatedBy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if info, ok := workflow.Info(o.Status); ok {
		resp.StatusLabel = info.Label
	}
	if o.TropPercu.Valid {
		d := o.TropPercu.Decimal
		resp.TropPercu = &d
	}
	return resp
}
