package workflow

// Role étiquette d'accès d'un utilisateur. Un utilisateur a exactement un rôle ;
// l'ensemble est fermé et contraint par CHECK en base.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDirecteur    Role = "directeur"
	RoleCoordinateur Role = "coordinateur" // coordination des ventes VN, accès à tout le circuit
	RoleCommercial   Role = "commercial"
	RoleGED          Role = "ged" // gestion électronique des documents
	RoleComptabilite Role = "comptabilite"
	RoleLogistique   Role = "logistique"
	RoleLivraison    Role = "livraison"
	RoleDaira        Role = "daira" // enregistrement administratif final
	RoleSAV          Role = "sav"   // pas d'accès au circuit VN
)

// AllRoles ensemble fermé des rôles valides.
var AllRoles = []Role{
	RoleAdmin, RoleDirecteur, RoleCoordinateur, RoleCommercial, RoleGED,
	RoleComptabilite, RoleLogistique, RoleLivraison, RoleDaira, RoleSAV,
}

var validRoles = func() map[Role]bool {
	m := make(map[Role]bool, len(AllRoles))
	for _, r := range AllRoles {
		m[r] = true
	}
	return m
}()

// IsValid indique si le rôle fait partie de l'ensemble fermé.
func (r Role) IsValid() bool { return validRoles[r] }

func (r Role) String() string { return string(r) }

// ActingUser identité explicite de l'appelant, passée à chaque décision
// d'autorisation et de validation. Jamais d'état ambiant.
type ActingUser struct {
	ID   string
	Role Role
}

// HasRole indique si le rôle de l'utilisateur appartient à l'ensemble autorisé.
// Rôle absent ou inconnu : refus (fermé par défaut).
func (u ActingUser) HasRole(allowed ...Role) bool {
	if !u.Role.IsValid() {
		return false
	}
	for _, r := range allowed {
		if u.Role == r {
			return true
		}
	}
	return false
}
