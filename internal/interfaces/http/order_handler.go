package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/application/usecase"
)

// OrderHandler gère la fiche commande VN (création, lecture, modification,
// suppression, statistiques). L'avancement du circuit relève du WorkflowHandler.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construit le handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create ouvre une commande à la première étape du circuit.
// POST /api/vn/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.OrderNumber == "" || in.CustomerName == "" || in.VehicleModel == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_number, customer_name et vehicle_model sont requis"})
	}
	order, err := h.uc.Create(c.Context(), actingUser(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// List retourne une page de commandes.
// GET /api/vn/orders?limit=&offset=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paramètres de page invalides"})
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID retourne la fiche complète, instantanés du circuit compris.
// GET /api/vn/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	order, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// Update modifie la fiche commande (client, véhicule, montants).
// PUT /api/vn/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	order, err := h.uc.Update(c.Context(), actingUser(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// Delete supprime la commande et ses fiches de document. Admin seulement.
// DELETE /api/vn/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), actingUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats répartition des commandes par étape et par emplacement.
// GET /api/vn/orders/stats
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
