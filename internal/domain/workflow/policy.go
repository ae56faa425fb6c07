package workflow

// Politique d'accès au circuit VN : prédicats purs, mêmes entrées mêmes sorties,
// aucune E/S. Tout cas inconnu (rôle ou étape hors référentiel) est refusé.

// stageAccess associe chaque rôle fonctionnel à ses étapes.
// Les rôles absents de la table n'accèdent à aucune étape.
var stageAccess = map[Role][]Stage{
	RoleCommercial:   {StageInscription, StageCommande},
	RoleGED:          {StageProforma, StageAccuse},
	RoleComptabilite: {StageValidation, StageFacturation},
	RoleLogistique:   {StageArrivage},
	RoleLivraison:    {StageCarteJaune, StageLivraison},
	RoleDaira:        {StageDossierDaira},
}

// allStageRoles rôles avec accès inconditionnel à toutes les étapes.
var allStageRoles = map[Role]bool{
	RoleAdmin:        true,
	RoleDirecteur:    true,
	RoleCoordinateur: true,
}

// CanAccessStage indique si le rôle peut consulter/modifier l'étape,
// indépendamment de la position courante de la commande.
func CanAccessStage(role Role, stage Stage) bool {
	if !role.IsValid() || !stage.IsValid() {
		return false
	}
	if allStageRoles[role] || CanCompleteAnyStage(role) {
		return true
	}
	for _, s := range stageAccess[role] {
		if s == stage {
			return true
		}
	}
	return false
}

// CanCreateOrder indique si le rôle peut créer une commande VN.
func CanCreateOrder(role Role) bool {
	switch role {
	case RoleAdmin, RoleDirecteur, RoleCoordinateur, RoleCommercial:
		return true
	}
	return false
}

// CanEditOrder indique si le rôle peut modifier la fiche commande (hors circuit).
func CanEditOrder(role Role) bool {
	return CanCreateOrder(role)
}

// CanCompleteAnyStage indique si le rôle peut clôturer n'importe quelle étape,
// y compris celles qui ne lui sont pas attribuées.
func CanCompleteAnyStage(role Role) bool {
	switch role {
	case RoleAdmin, RoleDirecteur, RoleDaira:
		return true
	}
	return false
}

// CanBypassValidation indique si le rôle peut clôturer une étape sans que ses
// critères de sortie soient satisfaits.
func CanBypassValidation(role Role) bool {
	return CanCompleteAnyStage(role)
}

// CanOverrideStatus forçage direct du statut, hors séquence. Réservé à l'admin.
func CanOverrideStatus(role Role) bool {
	return role == RoleAdmin
}

// CanDeleteOrder suppression définitive d'une commande. Réservé à l'admin.
func CanDeleteOrder(role Role) bool {
	return role == RoleAdmin
}

// CanManageUsers administration des comptes utilisateurs.
func CanManageUsers(role Role) bool {
	return role == RoleAdmin || role == RoleDirecteur
}
