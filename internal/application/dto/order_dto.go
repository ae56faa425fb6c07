package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// CreateOrderRequest entrée pour créer une commande VN (démarre en INSCRIPTION).
type CreateOrderRequest struct {
	OrderNumber     string          `json:"order_number" validate:"required,max=50"`
	CustomerName    string          `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string          `json:"customer_phone" validate:"required,max=30"`
	CustomerEmail   string          `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress string          `json:"customer_address" validate:"omitempty,max=300"`
	VehicleModel    string          `json:"vehicle_model" validate:"required,max=100"`
	VehicleColor    string          `json:"vehicle_color" validate:"omitempty,max=50"`
	Location        string          `json:"location" validate:"required,oneof=PARC1 PARC2 SHOWROOM"`
	TotalPrice      decimal.Decimal `json:"total_price" validate:"required"`
	AdvancePayment  decimal.Decimal `json:"advance_payment"`
}

// UpdateOrderRequest entrée pour modifier la fiche commande (hors circuit).
type UpdateOrderRequest struct {
	CustomerName    string          `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string          `json:"customer_phone" validate:"required,max=30"`
	CustomerEmail   string          `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress string          `json:"customer_address" validate:"omitempty,max=300"`
	VehicleModel    string          `json:"vehicle_model" validate:"required,max=100"`
	VehicleColor    string          `json:"vehicle_color" validate:"omitempty,max=50"`
	Location        string          `json:"location" validate:"required,oneof=PARC1 PARC2 SHOWROOM"`
	TotalPrice      decimal.Decimal `json:"total_price" validate:"required"`
	AdvancePayment  decimal.Decimal `json:"advance_payment"`
}

// OrderResponse fiche commande complète, instantanés du circuit compris.
type OrderResponse struct {
	ID               string                   `json:"id"`
	OrderNumber      string                   `json:"order_number"`
	CustomerName     string                   `json:"customer_name"`
	CustomerPhone    string                   `json:"customer_phone"`
	CustomerEmail    string                   `json:"customer_email,omitempty"`
	CustomerAddress  string                   `json:"customer_address,omitempty"`
	VehicleModel     string                   `json:"vehicle_model"`
	VehicleColor     string                   `json:"vehicle_color,omitempty"`
	VehicleVIN       string                   `json:"vehicle_vin,omitempty"`
	Status           workflow.Stage           `json:"status"`
	StatusLabel      string                   `json:"status_label"`
	Location         string                   `json:"location"`
	TotalPrice       decimal.Decimal          `json:"total_price"`
	AdvancePayment   decimal.Decimal          `json:"advance_payment"`
	RemainingBalance decimal.Decimal          `json:"remaining_balance"`
	TropPercu        *decimal.Decimal         `json:"trop_percu,omitempty"`
	Snapshots        workflow.StageSnapshots  `json:"stage_snapshots,omitempty"`
	CreatedBy        string                   `json:"created_by"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// OrderListResponse page de commandes.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   PageResponse    `json:"page"`
}

// UpdateStageFieldRequest auto-sauvegarde d'un champ de saisie d'étape.
// Value porte le JSON brut du champ (chaîne, booléen ou date selon le contrat de l'étape).
type UpdateStageFieldRequest struct {
	Field string          `json:"field" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

// OverrideStatusRequest forçage administratif du statut, hors séquence.
type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CompleteStageResponse résultat d'une demande d'avancement.
// Advanced vaut false quand la commande était déjà au stade final (non-opération).
type CompleteStageResponse struct {
	Order    OrderResponse `json:"order"`
	Advanced bool          `json:"advanced"`
	Message  string        `json:"message,omitempty"`
}

// OrderStatsResponse répartition des commandes par étape et par emplacement.
type OrderStatsResponse struct {
	ByStage    map[string]int `json:"by_stage"`
	ByLocation map[string]int `json:"by_location"`
}
