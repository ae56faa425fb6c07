package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/application/usecase"
)

// UserHandler administration des comptes.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construit le handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List page d'utilisateurs.
// GET /api/users?limit=&offset=
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paramètres de page invalides"})
	}
	out, err := h.uc.List(c.Context(), actingUser(c), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateRole change le rôle d'un utilisateur. Admin seulement.
// PUT /api/users/:id/role
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateUserRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "role est requis"})
	}
	user, err := h.uc.UpdateRole(c.Context(), actingUser(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// Delete supprime un compte. Admin seulement ; pas d'auto-suppression.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), actingUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
