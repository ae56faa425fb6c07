package workflow_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// Chaque étape du référentiel doit avoir un enregistrement typé.
func TestCapture_UnEnregistrementParEtape(t *testing.T) {
	for _, info := range workflow.Stages {
		rec, ok := workflow.NewCaptureData(info.Name)
		require.True(t, ok, "étape %s", info.Name)
		assert.Equal(t, info.Name, rec.Stage())
	}
	_, ok := workflow.NewCaptureData("EXPEDITION")
	assert.False(t, ok)
}

// Idempotence : poser deux fois le même champ/valeur laisse la saisie inchangée.
func TestCapture_SetIdempotent(t *testing.T) {
	rec := &workflow.ArrivageData{}
	require.NoError(t, rec.Set("avaries", json.RawMessage(`"oui"`)))
	avant := *rec
	require.NoError(t, rec.Set("avaries", json.RawMessage(`"oui"`)))
	assert.Equal(t, avant, *rec)
}

// Fermé par défaut : champ hors contrat de l'étape, valeur mal typée, choix
// hors ensemble ou date malformée → erreur, saisie intacte.
func TestCapture_SetRefuseHorsContrat(t *testing.T) {
	arrivage := &workflow.ArrivageData{}
	assert.Error(t, arrivage.Set("vehicle_vin", json.RawMessage(`"X"`)),
		"le VIN appartient à FACTURATION, pas à ARRIVAGE")
	assert.Error(t, arrivage.Set("avaries", json.RawMessage(`"peut-etre"`)))
	assert.Error(t, arrivage.Set("document_depose", json.RawMessage(`"vrai"`)),
		"booléen attendu, pas une chaîne")

	livraison := &workflow.LivraisonData{}
	assert.Error(t, livraison.Set("date_livraison", json.RawMessage(`"14/02/2026"`)))
	assert.NoError(t, livraison.Set("date_livraison", json.RawMessage(`"2026-02-14"`)))
}

// Aller-retour JSON des instantanés : l'union est re-décodée vers les types
// de chaque étape, horodatages compris.
func TestInstantanes_AllerRetourJSON(t *testing.T) {
	cloture := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	snaps := workflow.StageSnapshots{
		workflow.StageInscription: {
			CompletedAt: &cloture,
			Data:        &workflow.InscriptionData{ResultatAppel: "intéressé"},
		},
		workflow.StageFacturation: {
			Data: &workflow.FacturationData{VIN: "VF1RFB00", TropPercu: "oui", MontantTropPercu: "35000.00"},
		},
	}

	b, err := json.Marshal(snaps)
	require.NoError(t, err)

	var relu workflow.StageSnapshots
	require.NoError(t, json.Unmarshal(b, &relu))
	require.Len(t, relu, 2)

	insc, ok := relu[workflow.StageInscription].Data.(*workflow.InscriptionData)
	require.True(t, ok, "la saisie INSCRIPTION doit revenir typée")
	assert.Equal(t, "intéressé", insc.ResultatAppel)
	require.NotNil(t, relu[workflow.StageInscription].CompletedAt)
	assert.True(t, cloture.Equal(*relu[workflow.StageInscription].CompletedAt))

	fact, ok := relu[workflow.StageFacturation].Data.(*workflow.FacturationData)
	require.True(t, ok)
	assert.Equal(t, "VF1RFB00", fact.VIN)
	assert.Nil(t, relu[workflow.StageFacturation].CompletedAt, "étape non clôturée")
}

// Un instantané pour une étape hors référentiel est un état incohérent : refus au décodage.
func TestInstantanes_EtapeInconnueRefusee(t *testing.T) {
	var snaps workflow.StageSnapshots
	err := json.Unmarshal([]byte(`{"EXPEDITION":{"data":{"x":1}}}`), &snaps)
	assert.Error(t, err)
}

func TestInstantanes_EnsureCreeLaSaisie(t *testing.T) {
	var snaps workflow.StageSnapshots
	snap, ok := snaps.Ensure(workflow.StageProforma)
	require.True(t, ok)
	require.NotNil(t, snap.Data)
	assert.Equal(t, workflow.StageProforma, snap.Data.Stage())

	// Un second Ensure retourne la même entrée.
	require.NoError(t, snap.Data.Set("document_depose", json.RawMessage(`true`)))
	again, ok := snaps.Ensure(workflow.StageProforma)
	require.True(t, ok)
	assert.True(t, again.Data.(*workflow.ProformaData).DocumentDepose)

	_, ok = snaps.Ensure("EXPEDITION")
	assert.False(t, ok)
}
