package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oranauto/concession-api/internal/application/auth"
	"github.com/oranauto/concession-api/internal/application/usecase"
	"github.com/oranauto/concession-api/internal/application/vn"
)

// RouterDeps dépendances du routeur.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	OrderUC        *usecase.OrderUseCase
	DocumentUC     *usecase.DocumentUseCase
	DeliveryNoteUC *usecase.DeliveryNoteUseCase
	Engine         *vn.Engine
	JWTSecret      string
}

// Router enregistre les routes de l'API. L'autorisation fine (rôle par étape)
// est décidée en aval sur l'utilisateur agissant ; le routeur ne filtre que
// l'authentification.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth : login public, création de compte réservée à l'administration.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), authHandler.Register)

	// Routes protégées (Bearer Token requis).
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Utilisateurs (protégé)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Delete("/:id", userHandler.Delete)

	// Circuit VN (protégé)
	vnGroup := protected.Group("/vn")
	orderHandler := NewOrderHandler(deps.OrderUC)
	workflowHandler := NewWorkflowHandler(deps.Engine, deps.DeliveryNoteUC)
	documentHandler := NewDocumentHandler(deps.DocumentUC)

	vnGroup.Get("/stages", workflowHandler.Stages)

	orders := vnGroup.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/stats", orderHandler.Stats)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)

	orders.Post("/:id/complete-stage", workflowHandler.CompleteStage)
	orders.Patch("/:id/stages/:stage/fields", workflowHandler.UpdateStageField)
	orders.Post("/:id/override-status", workflowHandler.OverrideStatus)
	orders.Get("/:id/delivery-note.pdf", workflowHandler.DeliveryNote)

	orders.Post("/:id/documents", documentHandler.Create)
	orders.Get("/:id/documents", documentHandler.ListByOrder)
	vnGroup.Delete("/documents/:id", documentHandler.Delete)
}
