package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/application/usecase"
)

// DocumentHandler gère les fiches de document rattachées aux commandes.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construit le handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create enregistre la fiche d'un fichier déposé, rattachée à une étape explicite.
// POST /api/vn/orders/:id/documents
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.Stage == "" || in.DocumentName == "" || in.DocumentURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stage, document_name et document_url sont requis"})
	}
	doc, err := h.uc.Create(c.Context(), actingUser(c), orderID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// ListByOrder fiches de document d'une commande.
// GET /api/vn/orders/:id/documents
func (h *DocumentHandler) ListByOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	docs, err := h.uc.ListByOrder(c.Context(), orderID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// Delete supprime une fiche de document.
// DELETE /api/vn/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), actingUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
