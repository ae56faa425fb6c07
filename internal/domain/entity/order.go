package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// Emplacements physiques valides d'un véhicule.
const (
	LocationParc1    = "PARC1"
	LocationParc2    = "PARC2"
	LocationShowroom = "SHOWROOM"
)

// ValidLocation indique si l'emplacement fait partie de l'ensemble fermé.
func ValidLocation(loc string) bool {
	switch loc {
	case LocationParc1, LocationParc2, LocationShowroom:
		return true
	}
	return false
}

// Order représente une vente de véhicule neuf (commande VN).
// Status est toujours un nom d'étape valide du circuit ; Snapshots ne contient
// des entrées que pour les étapes au niveau ou en amont du statut courant.
type Order struct {
	ID               string
	OrderNumber      string
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	CustomerAddress  string
	VehicleModel     string
	VehicleColor     string
	VehicleVIN       string // renseigné à la clôture de FACTURATION
	Status           workflow.Stage
	Location         string
	TotalPrice       decimal.Decimal
	AdvancePayment   decimal.Decimal
	RemainingBalance decimal.Decimal // dérivé : TotalPrice - AdvancePayment
	TropPercu        decimal.NullDecimal
	Snapshots        workflow.StageSnapshots
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ComputeRemainingBalance recalcule le reste à payer à partir du total et de l'avance.
func (o *Order) ComputeRemainingBalance() {
	o.RemainingBalance = o.TotalPrice.Sub(o.AdvancePayment)
}
