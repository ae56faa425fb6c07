package workflow

// Stage identifie une étape du circuit de commande VN.
// Les valeurs correspondent exactement à la colonne status en base (contrainte CHECK).
type Stage string

const (
	StageInscription  Stage = "INSCRIPTION"
	StageProforma     Stage = "PROFORMA"
	StageCommande     Stage = "COMMANDE"
	StageValidation   Stage = "VALIDATION"
	StageAccuse       Stage = "ACCUSÉ"
	StageFacturation  Stage = "FACTURATION"
	StageArrivage     Stage = "ARRIVAGE"
	StageCarteJaune   Stage = "CARTE_JAUNE"
	StageLivraison    Stage = "LIVRAISON"
	StageDossierDaira Stage = "DOSSIER_DAIRA"
)

// StageInfo métadonnées d'affichage d'une étape.
type StageInfo struct {
	Name         Stage    `json:"name"`
	Label        string   `json:"label"`
	RequiredDocs []string `json:"required_docs"`
}

// Stages séquence ordonnée et figée du circuit VN. L'avancement normal se fait
// toujours vers le successeur immédiat, jamais par saut ni retour en arrière.
var Stages = []StageInfo{
	{Name: StageInscription, Label: "Inscription"},
	{Name: StageProforma, Label: "Proforma", RequiredDocs: []string{"Facture proforma"}},
	{Name: StageCommande, Label: "Commande", RequiredDocs: []string{"Bon de commande", "Pièce d'identité client"}},
	{Name: StageValidation, Label: "Validation", RequiredDocs: []string{"Dossier de validation"}},
	{Name: StageAccuse, Label: "Accusé de réception", RequiredDocs: []string{"Accusé de réception"}},
	{Name: StageFacturation, Label: "Facturation", RequiredDocs: []string{"Facture finale"}},
	{Name: StageArrivage, Label: "Arrivage"},
	{Name: StageCarteJaune, Label: "Carte jaune", RequiredDocs: []string{"Facture", "Carte jaune"}},
	{Name: StageLivraison, Label: "Livraison", RequiredDocs: []string{"Bon de livraison"}},
	{Name: StageDossierDaira, Label: "Dossier daïra", RequiredDocs: []string{"Dossier daïra"}},
}

var stageIndex = func() map[Stage]int {
	m := make(map[Stage]int, len(Stages))
	for i, s := range Stages {
		m[s.Name] = i
	}
	return m
}()

// IsValid indique si le nom d'étape fait partie du circuit.
func (s Stage) IsValid() bool {
	_, ok := stageIndex[s]
	return ok
}

// String retourne le nom canonique de l'étape.
func (s Stage) String() string { return string(s) }

// IndexOf retourne la position de l'étape dans le circuit, ou -1 si inconnue.
func IndexOf(s Stage) int {
	i, ok := stageIndex[s]
	if !ok {
		return -1
	}
	return i
}

// Successor retourne l'étape suivante du circuit.
// ok vaut false si l'étape est terminale ou inconnue.
func Successor(s Stage) (next StageInfo, ok bool) {
	i, found := stageIndex[s]
	if !found || i+1 >= len(Stages) {
		return StageInfo{}, false
	}
	return Stages[i+1], true
}

// IsTerminal indique si l'étape est la dernière du circuit.
func IsTerminal(s Stage) bool {
	i, ok := stageIndex[s]
	return ok && i == len(Stages)-1
}

// Info retourne les métadonnées de l'étape.
func Info(s Stage) (StageInfo, bool) {
	i, ok := stageIndex[s]
	if !ok {
		return StageInfo{}, false
	}
	return Stages[i], true
}

// FirstStage étape initiale du circuit (création de commande).
func FirstStage() Stage { return Stages[0].Name }
