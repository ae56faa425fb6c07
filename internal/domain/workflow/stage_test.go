package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// Propriété : pour toute étape non terminale, le successeur existe et se trouve
// exactement une position plus loin. L'étape terminale n'a pas de successeur.
func TestRegistre_SuccesseurEstImmediat(t *testing.T) {
	for i, info := range workflow.Stages {
		next, ok := workflow.Successor(info.Name)
		if i == len(workflow.Stages)-1 {
			assert.False(t, ok, "l'étape terminale %s ne doit pas avoir de successeur", info.Name)
			continue
		}
		require.True(t, ok, "l'étape %s doit avoir un successeur", info.Name)
		assert.Equal(t, workflow.IndexOf(info.Name)+1, workflow.IndexOf(next.Name),
			"le successeur de %s doit être à l'index suivant", info.Name)
	}
}

func TestRegistre_OrdreDuCircuit(t *testing.T) {
	attendu := []workflow.Stage{
		workflow.StageInscription, workflow.StageProforma, workflow.StageCommande,
		workflow.StageValidation, workflow.StageAccuse, workflow.StageFacturation,
		workflow.StageArrivage, workflow.StageCarteJaune, workflow.StageLivraison,
		workflow.StageDossierDaira,
	}
	require.Len(t, workflow.Stages, len(attendu))
	for i, s := range attendu {
		assert.Equal(t, s, workflow.Stages[i].Name)
		assert.Equal(t, i, workflow.IndexOf(s))
	}
	assert.Equal(t, workflow.StageInscription, workflow.FirstStage())
	assert.True(t, workflow.IsTerminal(workflow.StageDossierDaira))
	assert.False(t, workflow.IsTerminal(workflow.StageLivraison))
}

func TestRegistre_EtapeInconnue(t *testing.T) {
	assert.False(t, workflow.Stage("EXPEDITION").IsValid())
	assert.Equal(t, -1, workflow.IndexOf("EXPEDITION"))
	_, ok := workflow.Successor("EXPEDITION")
	assert.False(t, ok)
	assert.False(t, workflow.IsTerminal("EXPEDITION"))
}

func TestRegistre_DocumentsRequis(t *testing.T) {
	info, ok := workflow.Info(workflow.StageCarteJaune)
	require.True(t, ok)
	assert.Equal(t, []string{"Facture", "Carte jaune"}, info.RequiredDocs,
		"CARTE_JAUNE exige deux dépôts distincts")

	info, ok = workflow.Info(workflow.StageInscription)
	require.True(t, ok)
	assert.Empty(t, info.RequiredDocs)
}
