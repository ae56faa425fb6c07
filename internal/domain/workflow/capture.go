package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oranauto/concession-api/internal/domain"
)

// CaptureData données saisies pendant le travail d'une étape. Un type par étape :
// le compilateur garantit quels champs s'appliquent à quelle étape, et Set refuse
// tout champ hors contrat (fermé par défaut).
type CaptureData interface {
	Stage() Stage
	// Set fusionne un champ dans la saisie en cours. value est le JSON brut du
	// champ tel que reçu de l'interface (chaîne, booléen ou date).
	Set(field string, value json.RawMessage) error
	// Validate retourne nil si les critères de sortie de l'étape sont remplis,
	// sinon une MissingFieldError avec le message actionnable pour l'interface.
	Validate() error
}

// MissingFieldError critère de sortie non satisfait. S'emballe sur
// domain.ErrValidationIncomplete pour le mapping au bord HTTP.
type MissingFieldError struct {
	AtStage Stage
	Field   string
	Message string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.AtStage, e.Message)
}

func (e *MissingFieldError) Unwrap() error { return domain.ErrValidationIncomplete }

// NewCaptureData retourne un enregistrement vierge pour l'étape, ou ok=false
// si l'étape est hors référentiel.
func NewCaptureData(s Stage) (CaptureData, bool) {
	switch s {
	case StageInscription:
		return &InscriptionData{}, true
	case StageProforma:
		return &ProformaData{}, true
	case StageCommande:
		return &CommandeData{}, true
	case StageValidation:
		return &ValidationData{}, true
	case StageAccuse:
		return &AccuseData{}, true
	case StageFacturation:
		return &FacturationData{}, true
	case StageArrivage:
		return &ArrivageData{}, true
	case StageCarteJaune:
		return &CarteJauneData{}, true
	case StageLivraison:
		return &LivraisonData{}, true
	case StageDossierDaira:
		return &DossierDairaData{}, true
	}
	return nil, false
}

// ── Décodage des valeurs brutes ──────────────────────────────────────────────

func decodeString(field string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("champ %s: chaîne attendue: %w", field, err)
	}
	return s, nil
}

func decodeBool(field string, raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("champ %s: booléen attendu: %w", field, err)
	}
	return b, nil
}

func decodeDate(field string, raw json.RawMessage) (string, error) {
	s, err := decodeString(field, raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("champ %s: date AAAA-MM-JJ attendue: %w", field, err)
	}
	return s, nil
}

func decodeChoice(field string, raw json.RawMessage, allowed ...string) (string, error) {
	s, err := decodeString(field, raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fmt.Errorf("champ %s: valeur %q hors choix %v", field, s, allowed)
}

// present applique la règle « blanc = absent » : une valeur composée uniquement
// d'espaces ne satisfait jamais un critère.
func present(s string) bool { return strings.TrimSpace(s) != "" }

func errUnknownField(s Stage, field string) error {
	return fmt.Errorf("étape %s: champ %q hors contrat: %w", s, field, domain.ErrInvalidInput)
}

// ── INSCRIPTION ──────────────────────────────────────────────────────────────

// InscriptionData saisie de l'étape INSCRIPTION : résultat de l'appel client.
type InscriptionData struct {
	ResultatAppel string `json:"resultat_appel,omitempty"`
}

func (d *InscriptionData) Stage() Stage { return StageInscription }

func (d *InscriptionData) Set(field string, value json.RawMessage) error {
	switch field {
	case "resultat_appel":
		v, err := decodeString(field, value)
		if err != nil {
			return err
		}
		d.ResultatAppel = v
		return nil
	}
	return errUnknownField(d.Stage(), field)
}

func (d *InscriptionData) Validate() error {
	if !present(d.ResultatAppel) {
		return &MissingFieldError{AtStage: d.Stage(), Field: "resultat_appel", Message: "le résultat de l'appel doit être renseigné"}
	}
	return nil
}

// ── PROFORMA / COMMANDE / VALIDATION / ACCUSÉ ────────────────────────────────
// Même contrat : un indicateur « document déposé » doit être vrai.

// ProformaData saisie de l'étape PROFORMA.
type ProformaData struct {
	DocumentDepose bool `json:"document_depose,omitempty"`
}

func (d *ProformaData) Stage() Stage { return StageProforma }

func (d *ProformaData) Set(field string, value json.RawMessage) error {
	return setDocumentDepose(d.Stage(), &d.DocumentDepose, field, value)
}

func (d *ProformaData) Validate() error {
	return validateDocumentDepose(d.Stage(), d.DocumentDepose)
}

// CommandeData saisie de l'étape COMMANDE.
type CommandeData struct {
	DocumentDepose bool `json:"document_depose,omitempty"`
}

func (d *CommandeData) Stage() Stage { return StageCommande }

func (d *CommandeData) Set(field string, value json.RawMessage) error {
	return setDocumentDepose(d.Stage(), &d.DocumentDepose, field, value)
}

func (d *CommandeData) Validate() error {
	return validateDocumentDepose(d.Stage(), d.DocumentDepose)
}

// ValidationData saisie de l'étape VALIDATION.
type ValidationData struct {
	DocumentDepose bool `json:"document_depose,omitempty"`
}

func (d *ValidationData) Stage() Stage { return StageValidation }

func (d *ValidationData) Set(field string, value json.RawMessage) error {
	return setDocumentDepose(d.Stage(), &d.DocumentDepose, field, value)
}

func (d *ValidationData) Validate() error {
	return validateDocumentDepose(d.Stage(), d.DocumentDepose)
}

// AccuseData saisie de l'étape ACCUSÉ.
type AccuseData struct {
	DocumentDepose bool `json:"document_depose,omitempty"`
}

func (d *AccuseData) Stage() Stage { return StageAccuse }

func (d *AccuseData) Set(field string, value json.RawMessage) error {
	return setDocumentDepose(d.Stage(), &d.DocumentDepose, field, value)
}

func (d *AccuseData) Validate() error {
	return validateDocumentDepose(d.Stage(), d.DocumentDepose)
}

func setDocumentDepose(s Stage, dst *bool, field string, value json.RawMessage) error {
	if field != "document_depose" {
		return errUnknownField(s, field)
	}
	v, err := decodeBool(field, value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func validateDocumentDepose(s Stage, ok bool) error {
	if !ok {
		return &MissingFieldError{AtStage: s, Field: "document_depose", Message: "le document de l'étape doit être déposé"}
	}
	return nil
}

// ── FACTURATION ──────────────────────────────────────────────────────────────

// FacturationData saisie de l'étape FACTURATION. Le VIN capturé ici est recopié
// sur la fiche commande à la clôture de l'étape.
type FacturationData struct {
	VIN              string `json:"vehicle_vin,omitempty"`
	TropPercu        string `json:"trop_percu,omitempty"` // oui | non
	MontantTropPercu string `json:"montant_trop_percu,omitempty"`
}

func (d *FacturationData) Stage() Stage { return StageFacturation }

func (d *FacturationData) Set(field string, value json.RawMessage) error {
	switch field {
	case "vehicle_vin":
		v, err := decodeString(field, value)
		if err != nil {
			return err
		}
		d.VIN = v
		return nil
	case "trop_percu":
		v, err := decodeChoice(field, value, "oui", "non")
		if err != nil {
			return err
		}
		d.TropPercu = v
		return nil
	case "montant_trop_percu":
		v, err := decodeString(field, value)
		if err != nil {
			return err
		}
		d.MontantTropPercu = v
		return nil
	}
	return errUnknownField(d.Stage(), field)
}

// Validate exige le VIN et le choix trop-perçu. Le montant est attendu en aval
// quand le choix est « oui » mais n'est pas bloquant ici.
func (d *FacturationData) Validate() error {
	if !present(d.VIN) {
		return &MissingFieldError{AtStage: d.Stage(), Field: "vehicle_vin", Message: "le numéro de châssis (VIN) doit être renseigné"}
	}
	if !present(d.TropPercu) {
		return &MissingFieldError{AtStage: d.Stage(), Field: "trop_percu", Message: "le choix trop-perçu (oui/non) doit être renseigné"}
	}
	return nil
}

// ── ARRIVAGE ─────────────────────────────────────────────────────────────────

// ArrivageData saisie de l'étape ARRIVAGE : réception physique du véhicule.
type ArrivageData struct {
	DocumentDepose bool   `json:"document_depose,omitempty"`
	Avaries        string `json:"avaries,omitempty"` // oui | non
	AvariesNote    string `json:"avaries_note,omitempty"`
	Emplacement    string `json:"emplacement,omitempty"` // PARC1 | PARC2 | SHOWROOM
}

func (d *ArrivageData) Stage() Stage { return StageArrivage }

func (d *ArrivageData) Set(field string, value json.RawMessage) error {
	switch field {
	case "document_depose":
		v, err := decodeBool(field, value)
		if err != nil {
			return err
		}
		d.DocumentDepose = v
		return nil
	case "avaries":
		v, err := decodeChoice(field, value, "oui", "non")
		if err != nil {
			return err
		}
		d.Avaries = v
		return nil
	case "avaries_note":
		v, err := decodeString(field, value)
		if err != nil {
			return err
		}
		d.AvariesNote = v
		return nil
	case "emplacement":
		v, err := decodeChoice(field, value, "PARC1", "PARC2", "SHOWROOM")
		if err != nil {
			return err
		}
		d.Emplacement = v
		return nil
	}
	return errUnknownField(d.Stage(), field)
}

// Validate exige le document, le choix avaries et l'emplacement. La note n'est
// pas exigée quand avaries vaut « oui ».
func (d *ArrivageData) Validate() error {
	if !d.DocumentDepose {
		return &MissingFieldError{AtStage: d.Stage(), Field: "document_depose", Message: "le document d'arrivage doit être déposé"}
	}
	if !present(d.Avaries) {
		return &MissingFieldError{AtStage: d.Stage(), Field: "avaries", Message: "le constat d'avaries (oui/non) doit être renseigné"}
	}
	if !present(d.Emplacement) {
		return &MissingFieldError{AtStage: d.Stage(), Field: "emplacement", Message: "l'emplacement du véhicule doit être choisi"}
	}
	return nil
}

// ── CARTE_JAUNE ──────────────────────────────────────────────────────────────

// CarteJauneData saisie de l'étape CARTE_JAUNE : deux dépôts distincts.
type CarteJauneData struct {
	FactureDeposee    bool `json:"facture_deposee,omitempty"`
	CarteJauneDeposee bool `json:"carte_jaune_deposee,omitempty"`
}

func (d *CarteJauneData) Stage() Stage { return StageCarteJaune }

func (d *CarteJauneData) Set(field string, value json.RawMessage) error {
	switch field {
	case "facture_deposee":
		v, err := decodeBool(field, value)
		if err != nil {
			return err
		}
		d.FactureDeposee = v
		return nil
	case "carte_jaune_deposee":
		v, err := decodeBool(field, value)
		if err != nil {
			return err
		}
		d.CarteJauneDeposee = v
		return nil
	}
	return errUnknownField(d.Stage(), field)
}

func (d *CarteJauneData) Validate() error {
	if !d.FactureDeposee {
		return &MissingFieldError{AtStage: d.Stage(), Field: "facture_deposee", Message: "le scan de la facture doit être déposé"}
	}
	if !d.CarteJauneDeposee {
		return &MissingFieldError{AtStage: d.Stage(), Field: "carte_jaune_deposee", Message: "le scan de la carte jaune doit être déposé"}
	}
	return nil
}

// ── LIVRAISON ────────────────────────────────────────────────────────────────

// LivraisonData saisie de l'étape LIVRAISON.
type LivraisonData struct {
	DocumentDepose bool   `json:"document_depose,omitempty"`
	DateLivraison  string `json:"date_livraison,omitempty"` // AAAA-MM-JJ
}

func (d *LivraisonData) Stage() Stage { return StageLivraison }

func (d *LivraisonData) Set(field string, value json.RawMessage) error {
	switch field {
	case "document_depose":
		v, err := decodeBool(field, value)
		if err != nil {
			return err
		}
		d.DocumentDepose = v
		return nil
	case "date_livraison":
		v, err := decodeDate(field, value)
		if err != nil {
			return err
		}
		d.DateLivraison = v
		return nil
	}
	return errUnknownField(d.Stage(), field)
}

func (d *LivraisonData) Validate() error {
	if !d.DocumentDepose {
		return &MissingFieldError{AtStage: d.Stage(), Field: "document_depose", Message: "le bon de livraison doit être déposé"}
	}
	if !present(d.DateLivraison) {
		return &MissingFieldError{AtStage: d.Stage(), Field: "date_livraison", Message: "la date de livraison doit être renseignée"}
	}
	return nil
}

// ── DOSSIER_DAIRA ────────────────────────────────────────────────────────────

// DossierDairaData saisie de l'étape terminale DOSSIER_DAIRA.
type DossierDairaData struct {
	DocumentDepose bool `json:"document_depose,omitempty"`
}

func (d *DossierDairaData) Stage() Stage { return StageDossierDaira }

func (d *DossierDairaData) Set(field string, value json.RawMessage) error {
	return setDocumentDepose(d.Stage(), &d.DocumentDepose, field, value)
}

func (d *DossierDairaData) Validate() error {
	return validateDocumentDepose(d.Stage(), d.DocumentDepose)
}
