package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oranauto/concession-api/internal/application/usecase"
	"github.com/oranauto/concession-api/internal/application/vn"
	"github.com/oranauto/concession-api/internal/domain/entity"
	"github.com/oranauto/concession-api/internal/domain/workflow"
	infrapdf "github.com/oranauto/concession-api/internal/infrastructure/pdf"
	apphttp "github.com/oranauto/concession-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dépôt en mémoire pour les tests du circuit via HTTP
// ──────────────────────────────────────────────────────────────────────────────

type memOrderRepo struct {
	orders map[string]*entity.Order
}

func newMemOrderRepo(orders ...*entity.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[string]*entity.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	// Copie via JSON : simule la relecture depuis la base.
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

func (r *memOrderRepo) List(_ context.Context, _, _ int) ([]*entity.Order, error) { return nil, nil }

func (r *memOrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) UpdateStageState(_ context.Context, o *entity.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) UpdateSnapshots(_ context.Context, o *entity.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) CountByStage(_ context.Context) (map[workflow.Stage]int, error) {
	return map[workflow.Stage]int{}, nil
}

func (r *memOrderRepo) CountByLocation(_ context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

// buildVNApp monte l'application avec le vrai moteur du circuit sur un dépôt
// en mémoire. Seules les routes VN sont exercées ici.
func buildVNApp(repo *memOrderRepo) *fiber.App {
	app := fiber.New()
	engine := vn.NewEngine(repo)
	orderUC := usecase.NewOrderUseCase(repo, nil)
	deliveryNoteUC := usecase.NewDeliveryNoteUseCase(repo, infrapdf.NewMarotoDeliveryNote("Concession Test"))
	apphttp.Router(app, apphttp.RouterDeps{
		OrderUC:        orderUC,
		DeliveryNoteUC: deliveryNoteUC,
		Engine:         engine,
		JWTSecret:      testJWTSecret,
	})
	return app
}

func vnOrder(stage workflow.Stage) *entity.Order {
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

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Clôture d'étape
// ──────────────────────────────────────────────────────────────────────────────

// GED clôture ACCUSÉ avec le document déposé : 200, advanced:true, statut FACTURATION.
func TestCompleteStage_GedClotureAccuse(t *testing.T) {
	order := vnOrder(workflow.StageAccuse)
	order.Snapshots = workflow.StageSnapshots{
		workflow.StageAccuse: {Data: &workflow.AccuseData{DocumentDepose: true}},
	}
	app := buildVNApp(newMemOrderRepo(order))

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/complete-stage", tokenForRole(t, "ged"), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Advanced bool `json:"advanced"`
		Order    struct {
			Status string `json:"status"`
		} `json:"order"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Advanced)
	assert.Equal(t, "FACTURATION", body.Order.Status)
}

// Commercial sur VALIDATION : hors de son périmètre, 403 ACCES_REFUSE.
func TestCompleteStage_CommercialRefuseSurValidation(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageValidation)))

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/complete-stage", tokenForRole(t, "commercial"), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ACCES_REFUSE", body["code"])
}

// Critère de sortie non satisfait : 422 avec le champ et le message actionnable.
func TestCompleteStage_ValidationIncomplete(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageAccuse)))

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/complete-stage", tokenForRole(t, "ged"), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_INCOMPLETE", body["code"])
	assert.Equal(t, "document_depose", body["field"])
	assert.NotEmpty(t, body["message"])
}

// Commande déjà au stade final : 200 avec advanced:false, pas d'erreur.
func TestCompleteStage_StadeFinalNonOperation(t *testing.T) {
	order := vnOrder(workflow.StageDossierDaira)
	app := buildVNApp(newMemOrderRepo(order))

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/complete-stage", tokenForRole(t, "admin"), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Advanced bool `json:"advanced"`
		Order    struct {
			Status string `json:"status"`
		} `json:"order"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Advanced)
	assert.Equal(t, "DOSSIER_DAIRA", body.Order.Status)
}

// Commande inconnue : 404.
func TestCompleteStage_CommandeInconnue(t *testing.T) {
	app := buildVNApp(newMemOrderRepo())

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/absente/complete-stage", tokenForRole(t, "admin"), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Sans token : 401 avant toute logique métier.
func TestCompleteStage_SansToken(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageAccuse)))

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/complete-stage", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auto-sauvegarde de champ
// ──────────────────────────────────────────────────────────────────────────────

// PATCH d'un champ puis relecture : la saisie est persistée immédiatement.
func TestUpdateStageField_AutoSauvegarde(t *testing.T) {
	repo := newMemOrderRepo(vnOrder(workflow.StageInscription))
	app := buildVNApp(repo)

	resp := doJSON(t, app, http.MethodPatch, "/api/vn/orders/ord-1/stages/INSCRIPTION/fields",
		tokenForRole(t, "commercial"),
		map[string]any{"field": "resultat_appel", "value": "client joint, proforma demandée"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := repo.GetByID(context.Background(), "ord-1")
	require.NoError(t, err)
	data, ok := stored.Snapshots.DataFor(workflow.StageInscription).(*workflow.InscriptionData)
	require.True(t, ok)
	assert.Equal(t, "client joint, proforma demandée", data.ResultatAppel)
}

// Champ hors contrat de l'étape : 400.
func TestUpdateStageField_ChampHorsContrat(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageInscription)))

	resp := doJSON(t, app, http.MethodPatch, "/api/vn/orders/ord-1/stages/INSCRIPTION/fields",
		tokenForRole(t, "commercial"),
		map[string]any{"field": "couleur_preferee", "value": "rouge"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Étape en aval du statut courant : refusée, l'invariant des instantanés tient.
func TestUpdateStageField_EtapeFutureRefusee(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageInscription)))

	resp := doJSON(t, app, http.MethodPatch, "/api/vn/orders/ord-1/stages/ARRIVAGE/fields",
		tokenForRole(t, "admin"),
		map[string]any{"field": "emplacement", "value": "PARC1"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Forçage administratif
// ──────────────────────────────────────────────────────────────────────────────

// Admin force le statut hors séquence : 200.
func TestOverrideStatus_Admin(t *testing.T) {
	repo := newMemOrderRepo(vnOrder(workflow.StageInscription))
	app := buildVNApp(repo)

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/override-status",
		tokenForRole(t, "admin"), map[string]string{"status": "ARRIVAGE"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := repo.GetByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StageArrivage, stored.Status)
}

// Directeur sans droit de forçage : 403 même avec le droit de tout clôturer.
func TestOverrideStatus_DirecteurRefuse(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageInscription)))

	resp := doJSON(t, app, http.MethodPost, "/api/vn/orders/ord-1/override-status",
		tokenForRole(t, "directeur"), map[string]string{"status": "ARRIVAGE"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bon de livraison
// ──────────────────────────────────────────────────────────────────────────────

func TestDeliveryNote_GenerePDF(t *testing.T) {
	order := vnOrder(workflow.StageLivraison)
	app := buildVNApp(newMemOrderRepo(order))

	resp := doJSON(t, app, http.MethodGet, "/api/vn/orders/ord-1/delivery-note.pdf", tokenForRole(t, "livraison"), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bon-livraison-VN-2026-001.pdf")
}

func TestDeliveryNote_RoleSansAcces(t *testing.T) {
	app := buildVNApp(newMemOrderRepo(vnOrder(workflow.StageLivraison)))

	resp := doJSON(t, app, http.MethodGet, "/api/vn/orders/ord-1/delivery-note.pdf", tokenForRole(t, "sav"), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
