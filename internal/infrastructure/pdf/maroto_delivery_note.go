// Package pdf génère le bon de livraison remis au client à l'étape LIVRAISON.
//
// Mise en page A4 :
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Concession  │  N° commande + Date                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENT: nom, téléphone, adresse                             │
//	│  VÉHICULE: modèle, couleur, VIN, emplacement                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MONTANTS: total / avance / reste à payer (/ trop-perçu)     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SIGNATURES: client | concession                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoDeliveryNote implémente usecase.DeliveryNoteGenerator avec Maroto v2.
type MarotoDeliveryNote struct {
	ConcessionName string
}

// NewMarotoDeliveryNote construit le générateur.
func NewMarotoDeliveryNote(concessionName string) *MarotoDeliveryNote {
	return &MarotoDeliveryNote{ConcessionName: concessionName}
}

// Generate produit le PDF et retourne ses octets.
func (g *MarotoDeliveryNote) Generate(order *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de livraison "+order.OrderNumber, true).
		WithAuthor(g.ConcessionName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(order))
	m.AddRows(vehiculeRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(montantsRow(order))
	m.AddRows(line.NewRow(3))
	m.AddRows(signaturesRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: générer le bon de livraison: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow : concession (gauche), n° de commande + date de livraison (droite).
func (g *MarotoDeliveryNote) headerRow(order *entity.Order) core.Row {
	date := "—"
	if snap, ok := order.Snapshots[workflow.StageLivraison]; ok {
		if liv, isLiv := snap.Data.(*workflow.LivraisonData); isLiv && liv.DateLivraison != "" {
			date = liv.DateLivraison
		}
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.ConcessionName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Vente véhicules neufs", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("BON DE LIVRAISON", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Livraison: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clientRow(order *entity.Order) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(order.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tél: %s   |   Adresse: %s",
				nonEmpty(order.CustomerPhone, "—"),
				nonEmpty(order.CustomerAddress, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func vehiculeRow(order *entity.Order) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("VÉHICULE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s %s", order.VehicleModel, order.VehicleColor), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("N° de châssis (VIN): %s   |   Emplacement: %s",
				nonEmpty(order.VehicleVIN, "—"),
				order.Location,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// montantsRow : bloc des montants aligné à droite.
func montantsRow(order *entity.Order) core.Row {
	// Chaque ligne a son décalage vertical, sinon les textes se superposent.
	label := func(i int, s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			Top: float64(1 + i*6),
		})
	}
	value := func(i int, s string) core.Component {
		return text.New(s, props.Text{
			Size: 9, Align: align.Right, Right: 1,
			Top: float64(1 + i*6),
		})
	}

	labels := []core.Component{
		label(0, "Prix total:"),
		label(1, "Avance versée:"),
		label(2, "Reste à payer:"),
	}
	values := []core.Component{
		value(0, order.TotalPrice.StringFixed(2) + " DA"),
		value(1, order.AdvancePayment.StringFixed(2) + " DA"),
		value(2, order.RemainingBalance.StringFixed(2) + " DA"),
	}
	if order.TropPercu.Valid {
		labels = append(labels, label(3, "Trop-perçu:"))
		values = append(values, value(3, order.TropPercu.Decimal.StringFixed(2) + " DA"))
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
		col.New(1),
	)
}

func signaturesRow() core.Row {
	sig := func(titre string) core.Col {
		return col.New(6).Add(
			text.New(titre, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 2,
			}),
			text.New("Signature: ______________________", props.Text{
				Size: 9, Align: align.Center, Top: 18, Color: colorGray,
			}),
		)
	}
	return row.New(30).Add(sig("Le client"), sig("La concession"))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
