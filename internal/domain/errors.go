package domain

import "errors"

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound             = errors.New("ressource introuvable")
	ErrUserNotFound         = errors.New("utilisateur introuvable")
	ErrEmailAlreadyExists   = errors.New("l'email est déjà enregistré")
	ErrInvalidInput         = errors.New("entrée invalide")
	ErrDuplicate            = errors.New("ressource dupliquée")
	ErrUnauthorized         = errors.New("non autorisé")
	ErrAccesRefuse          = errors.New("accès refusé")
	ErrValidationIncomplete = errors.New("champs requis manquants")
	ErrEtapeTerminale       = errors.New("commande déjà au stade final")
	ErrEtapeInconnue        = errors.New("étape inconnue")
	ErrRoleInconnu          = errors.New("rôle inconnu")
)
