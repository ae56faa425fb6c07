package vn_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oranauto/concession-api/internal/application/vn"
	"github.com/oranauto/concession-api/internal/domain"
	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dépôt en mémoire pour les tests du moteur
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders           map[string]*entity.Order
	stageStateWrites int
	snapshotWrites   int
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	// Copie via JSON : simule la relecture depuis la base (y compris le
	// re-décodage typé des instantanés).
	b, err := json.Marshal(o.Snapshots)
	if err != nil {
		return nil, err
	}
	clone := *o
	clone.Snapshots = nil
	if len(b) > 0 && string(b) != "null" {
		if err := json.Unmarshal(b, &clone.Snapshots); err != nil {
			return nil, err
		}
	}
	return &clone, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _, _ int) ([]*entity.Order, error) { return nil, nil }

func (r *fakeOrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) UpdateStageState(_ context.Context, o *entity.Order) error {
	r.stageStateWrites++
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) UpdateSnapshots(_ context.Context, o *entity.Order) error {
	r.snapshotWrites++
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) CountByStage(_ context.Context) (map[workflow.Stage]int, error) {
	return nil, nil
}

func (r *fakeOrderRepo) CountByLocation(_ context.Context) (map[string]int, error) {
	return nil, nil
}

func orderAt(stage workflow.Stage) *entity.Order {
	return &entity.Order{
		ID:           "ord-1",
		OrderNumber:  "VN-2026-001",
		CustomerName: "Benali Karim",
		VehicleModel: "Stepway",
		Status:       stage,
		Location:     entity.LocationParc1,
		TotalPrice:   decimal.RequireFromString("2500000"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CompleteStage
// ──────────────────────────────────────────────────────────────────────────────

// Scénario B de bout en bout : GED clôture ACCUSÉ, le statut passe à FACTURATION,
// l'horodatage est posé et la persistance tient en UNE écriture.
func TestEngine_ClotureAccuseAvanceVersFacturation(t *testing.T) {
	order := orderAt(workflow.StageAccuse)
	order.Snapshots = workflow.StageSnapshots{
		workflow.StageAccuse: {Data: &workflow.AccuseData{DocumentDepose: true}},
	}
	repo := newFakeOrderRepo(order)
	engine := vn.NewEngine(repo)

	avant := time.Now()
	ged := workflow.ActingUser{ID: "u-ged", Role: workflow.RoleGED}
	maj, err := engine.CompleteStage(context.Background(), "ord-1", ged)
	require.NoError(t, err)

	assert.Equal(t, workflow.StageFacturation, maj.Status)
	require.NotNil(t, maj.Snapshots[workflow.StageAccuse].CompletedAt)
	assert.False(t, maj.Snapshots[workflow.StageAccuse].CompletedAt.Before(avant),
		"completed_at doit être ≥ l'instant de l'appel")
	assert.Equal(t, 1, repo.stageStateWrites, "statut + instantanés en une seule écriture")

	// Relecture : l'état persisté reflète bien l'avancement.
	relu, err := repo.GetByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StageFacturation, relu.Status)
	require.NotNil(t, relu.Snapshots[workflow.StageAccuse].CompletedAt)
}

// La clôture de FACTURATION recopie le VIN et le trop-perçu sur la fiche.
func TestEngine_ClotureFacturationRecopieVINEtTropPercu(t *testing.T) {
	order := orderAt(workflow.StageFacturation)
	order.Snapshots = workflow.StageSnapshots{
		workflow.StageFacturation: {Data: &workflow.FacturationData{
			VIN: "VF1RFB00X12345678", TropPercu: "oui", MontantTropPercu: "35000.00",
		}},
	}
	repo := newFakeOrderRepo(order)
	engine := vn.NewEngine(repo)

	compta := workflow.ActingUser{ID: "u-cpt", Role: workflow.RoleComptabilite}
	maj, err := engine.CompleteStage(context.Background(), "ord-1", compta)
	require.NoError(t, err)

	assert.Equal(t, workflow.StageArrivage, maj.Status)
	assert.Equal(t, "VF1RFB00X12345678", maj.VehicleVIN)
	require.True(t, maj.TropPercu.Valid)
	assert.True(t, maj.TropPercu.Decimal.Equal(decimal.RequireFromString("35000.00")))
}

// Critères non remplis : message actionnable, rien n'est persisté.
func TestEngine_ValidationIncompleteNePersisteRien(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)

	commercial := workflow.ActingUser{ID: "u-com", Role: workflow.RoleCommercial}
	_, err := engine.CompleteStage(context.Background(), "ord-1", commercial)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationIncomplete)

	var manque *workflow.MissingFieldError
	require.ErrorAs(t, err, &manque)
	assert.Equal(t, "resultat_appel", manque.Field)
	assert.Zero(t, repo.stageStateWrites)
}

// Scénario A appliqué au moteur : le commercial ne touche pas à VALIDATION.
func TestEngine_AccesRefuseHorsEtapesDuRole(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageValidation))
	engine := vn.NewEngine(repo)

	commercial := workflow.ActingUser{ID: "u-com", Role: workflow.RoleCommercial}
	_, err := engine.CompleteStage(context.Background(), "ord-1", commercial)
	assert.ErrorIs(t, err, domain.ErrAccesRefuse)
	assert.Zero(t, repo.stageStateWrites)
}

// Le directeur contourne la validation : clôture sans aucune saisie.
func TestEngine_DirecteurClotureSansSaisie(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageValidation))
	engine := vn.NewEngine(repo)

	directeur := workflow.ActingUser{ID: "u-dir", Role: workflow.RoleDirecteur}
	maj, err := engine.CompleteStage(context.Background(), "ord-1", directeur)
	require.NoError(t, err)
	assert.Equal(t, workflow.StageAccuse, maj.Status)
}

// Stade final : non-opération signalée, aucune écriture.
func TestEngine_StadeFinalEstUneNonOperation(t *testing.T) {
	order := orderAt(workflow.StageDossierDaira)
	order.Snapshots = workflow.StageSnapshots{
		workflow.StageDossierDaira: {Data: &workflow.DossierDairaData{DocumentDepose: true}},
	}
	repo := newFakeOrderRepo(order)
	engine := vn.NewEngine(repo)

	admin := workflow.ActingUser{ID: "u-adm", Role: workflow.RoleAdmin}
	maj, err := engine.CompleteStage(context.Background(), "ord-1", admin)
	assert.ErrorIs(t, err, domain.ErrEtapeTerminale)
	require.NotNil(t, maj, "la commande inchangée est retournée")
	assert.Equal(t, workflow.StageDossierDaira, maj.Status)
	assert.Zero(t, repo.stageStateWrites)
}

func TestEngine_CommandeIntrouvable(t *testing.T) {
	engine := vn.NewEngine(newFakeOrderRepo())
	admin := workflow.ActingUser{ID: "u-adm", Role: workflow.RoleAdmin}
	_, err := engine.CompleteStage(context.Background(), "absente", admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStageField
// ──────────────────────────────────────────────────────────────────────────────

// Auto-sauvegarde : chaque modification est persistée immédiatement, et rejouer
// le même champ/valeur laisse la saisie persistée identique.
func TestEngine_AutoSauvegardeIdempotente(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)
	commercial := workflow.ActingUser{ID: "u-com", Role: workflow.RoleCommercial}

	_, err := engine.UpdateStageField(context.Background(), "ord-1",
		workflow.StageInscription, "resultat_appel", []byte(`"intéressé"`), commercial)
	require.NoError(t, err)
	premiere, err := repo.GetByID(context.Background(), "ord-1")
	require.NoError(t, err)

	_, err = engine.UpdateStageField(context.Background(), "ord-1",
		workflow.StageInscription, "resultat_appel", []byte(`"intéressé"`), commercial)
	require.NoError(t, err)
	seconde, err := repo.GetByID(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, premiere.Snapshots, seconde.Snapshots,
		"rejouer la même valeur ne change pas l'état persisté")
	assert.Equal(t, 2, repo.snapshotWrites)
	assert.Zero(t, repo.stageStateWrites, "l'auto-sauvegarde ne touche pas au statut")
}

// L'invariant des instantanés tient : pas de saisie pour une étape en aval.
func TestEngine_SaisieEtapeFutureRefusee(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)
	admin := workflow.ActingUser{ID: "u-adm", Role: workflow.RoleAdmin}

	_, err := engine.UpdateStageField(context.Background(), "ord-1",
		workflow.StageLivraison, "date_livraison", []byte(`"2026-05-01"`), admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, repo.snapshotWrites)
}

func TestEngine_SaisieChampHorsContratRefusee(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)
	commercial := workflow.ActingUser{ID: "u-com", Role: workflow.RoleCommercial}

	_, err := engine.UpdateStageField(context.Background(), "ord-1",
		workflow.StageInscription, "vehicle_vin", []byte(`"X"`), commercial)
	require.Error(t, err)
	assert.Zero(t, repo.snapshotWrites)
}

// ──────────────────────────────────────────────────────────────────────────────
// OverrideStatus
// ──────────────────────────────────────────────────────────────────────────────

// L'échappatoire admin saute à une étape arbitraire, hors séquence.
func TestEngine_ForcageAdminHorsSequence(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)

	admin := workflow.ActingUser{ID: "u-adm", Role: workflow.RoleAdmin}
	maj, err := engine.OverrideStatus(context.Background(), "ord-1", workflow.StageLivraison, admin)
	require.NoError(t, err)
	assert.Equal(t, workflow.StageLivraison, maj.Status)
	assert.Equal(t, 1, repo.stageStateWrites)
}

// Le forçage reste réservé à l'admin, même pour le directeur.
func TestEngine_ForcageRefuseAuDirecteur(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)

	directeur := workflow.ActingUser{ID: "u-dir", Role: workflow.RoleDirecteur}
	_, err := engine.OverrideStatus(context.Background(), "ord-1", workflow.StageLivraison, directeur)
	assert.ErrorIs(t, err, domain.ErrAccesRefuse)
}

func TestEngine_ForcageVersEtapeInconnueRefuse(t *testing.T) {
	repo := newFakeOrderRepo(orderAt(workflow.StageInscription))
	engine := vn.NewEngine(repo)

	admin := workflow.ActingUser{ID: "u-adm", Role: workflow.RoleAdmin}
	_, err := engine.OverrideStatus(context.Background(), "ord-1", "EXPEDITION", admin)
	assert.ErrorIs(t, err, domain.ErrEtapeInconnue)
}
