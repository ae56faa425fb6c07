package entity

import (
	"time"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// User représente un utilisateur du back office. Un seul rôle par utilisateur,
// tiré de l'ensemble fermé workflow.AllRoles.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, jamais en clair après persistance
	Name         string
	Role         workflow.Role
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
