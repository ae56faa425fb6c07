package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/application/usecase"
	"github.com/oranauto/concession-api/internal/application/vn"
	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// WorkflowHandler expose l'avancement du circuit VN : clôture d'étape,
// auto-sauvegarde de champ, forçage administratif et bon de livraison.
type WorkflowHandler struct {
	engine       *vn.Engine
	deliveryNote *usecase.DeliveryNoteUseCase
}

// NewWorkflowHandler construit le handler.
func NewWorkflowHandler(engine *vn.Engine, deliveryNote *usecase.DeliveryNoteUseCase) *WorkflowHandler {
	return &WorkflowHandler{engine: engine, deliveryNote: deliveryNote}
}

// Stages retourne le référentiel ordonné des étapes du circuit.
// GET /api/vn/stages
func (h *WorkflowHandler) Stages(c *fiber.Ctx) error {
	type stageOut struct {
		Name         workflow.Stage `json:"name"`
		Label        string         `json:"label"`
		Position     int            `json:"position"`
		Terminal     bool           `json:"terminal"`
		RequiredDocs []string       `json:"required_docs,omitempty"`
	}
	out := make([]stageOut, 0, len(workflow.Stages))
	for i, info := range workflow.Stages {
		out = append(out, stageOut{
			Name:         info.Name,
			Label:        info.Label,
			Position:     i,
			Terminal:     workflow.IsTerminal(info.Name),
			RequiredDocs: info.RequiredDocs,
		})
	}
	return c.JSON(fiber.Map{"stages": out})
}

// CompleteStage clôture l'étape courante et avance au successeur.
// Une commande déjà au stade final répond 200 avec advanced:false.
// POST /api/vn/orders/:id/complete-stage
func (h *WorkflowHandler) CompleteStage(c *fiber.Ctx) error {
	id := c.Params("id")
	order, err := h.engine.CompleteStage(c.Context(), id, actingUser(c))
	if err != nil {
		if errors.Is(err, domain.ErrEtapeTerminale) {
			return c.JSON(dto.CompleteStageResponse{
				Order:    *usecase.ToOrderResponse(order),
				Advanced: false,
				Message:  "commande déjà au stade final",
			})
		}
		return fail(c, err)
	}
	return c.JSON(dto.CompleteStageResponse{
		Order:    *usecase.ToOrderResponse(order),
		Advanced: true,
	})
}

// UpdateStageField fusionne un champ dans la saisie de l'étape et persiste
// immédiatement (auto-sauvegarde).
// PATCH /api/vn/orders/:id/stages/:stage/fields
func (h *WorkflowHandler) UpdateStageField(c *fiber.Ctx) error {
	id := c.Params("id")
	stage := workflow.Stage(c.Params("stage"))
	var in dto.UpdateStageFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.Field == "" || len(in.Value) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "field et value sont requis"})
	}
	order, err := h.engine.UpdateStageField(c.Context(), id, stage, in.Field, in.Value, actingUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(usecase.ToOrderResponse(order))
}

// OverrideStatus force le statut à une étape arbitraire, hors séquence.
// Échappatoire administrative, séparée de l'avancement normal.
// POST /api/vn/orders/:id/override-status
func (h *WorkflowHandler) OverrideStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.OverrideStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status est requis"})
	}
	order, err := h.engine.OverrideStatus(c.Context(), id, workflow.Stage(in.Status), actingUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(usecase.ToOrderResponse(order))
}

// DeliveryNote génère le bon de livraison PDF de la commande.
// GET /api/vn/orders/:id/delivery-note.pdf
func (h *WorkflowHandler) DeliveryNote(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, filename, err := h.deliveryNote.Generate(c.Context(), actingUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
