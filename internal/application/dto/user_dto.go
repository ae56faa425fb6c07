package dto

import "time"

// RegisterRequest entrée pour créer un utilisateur (password en clair, hashé au use case).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required"`
}

// LoginRequest entrée pour l'authentification.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse jeton JWT plus la fiche utilisateur.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse fiche utilisateur (sans hash de mot de passe).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUserRoleRequest changement de rôle (un seul rôle par utilisateur).
type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UserListResponse page d'utilisateurs.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}
