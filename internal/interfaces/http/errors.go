package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oranauto/concession-api/internal/application/dto"
	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// fail mappe une erreur de domaine sur la réponse HTTP correspondante.
// Le détail d'une validation incomplète (champ et message actionnable) est
// reporté tel quel : l'interface l'affiche à côté du champ concerné.
func fail(c *fiber.Ctx, err error) error {
	var missing *workflow.MissingFieldError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":    "VALIDATION_INCOMPLETE",
			"message": missing.Message,
			"stage":   missing.AtStage,
			"field":   missing.Field,
		})
	}

	switch {
	case errors.Is(err, domain.ErrValidationIncomplete):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION_INCOMPLETE", Message: err.Error()})
	case errors.Is(err, domain.ErrAccesRefuse):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCES_REFUSE", Message: "accès refusé pour ce rôle"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identifiants invalides"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "l'email est déjà enregistré"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la ressource existe déjà"})
	case errors.Is(err, domain.ErrEtapeInconnue):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ETAPE_INCONNUE", Message: "étape hors référentiel"})
	case errors.Is(err, domain.ErrRoleInconnu):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ROLE_INCONNU", Message: "rôle hors référentiel"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	// Panne de dépôt ou erreur inattendue : le client peut rejouer plus tard.
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "opération indisponible, réessayez"})
}
