package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thierrypro75/gosbi-backend/internal/application/alert"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// captureNotifier retient les alertes émises pour vérification.
type captureNotifier struct {
	mu     sync.Mutex
	events []alert.LowStockEvent
}

func (n *captureNotifier) LowStock(_ context.Context, ev alert.LowStockEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type testEnv struct {
	store       *memory.Store
	coordinator *stock.Coordinator
	notifier    *captureNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	notifier := &captureNotifier{}
	return &testEnv{
		store:       store,
		coordinator: stock.NewCoordinator(store, notifier),
		notifier:    notifier,
	}
}

// newPresentation crée un produit et une présentation prêts à recevoir des
// mouvements.
func (e *testEnv) newPresentation(t *testing.T, threshold int) *entity.Presentation {
	t.Helper()
	product := &entity.Product{Name: "Doliprane 500mg"}
	require.NoError(t, e.store.Products().Create(product))
	pres := &entity.Presentation{
		ProductID:         product.ID,
		UnitLabel:         "boîte de 30",
		PurchasePrice:     decimal.NewFromInt(1200),
		LowStockThreshold: threshold,
	}
	require.NoError(t, e.store.Presentations().Create(pres))
	return pres
}

func (e *testEnv) quantity(t *testing.T, presentationID string) int {
	t.Helper()
	pres, err := e.store.Presentations().GetByID(presentationID)
	require.NoError(t, err)
	require.NotNil(t, pres)
	return pres.QuantityOnHand
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock initial
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordInitialStock(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	mov, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 100, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementReasonINITIAL, mov.Reason)
	assert.Equal(t, 0, mov.StockBefore)
	assert.Equal(t, 100, mov.StockAfter)
	assert.Equal(t, 100, env.quantity(t, pres.ID))
}

func TestRecordInitialStock_UneSeuleFois(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 100, "user-1")
	require.NoError(t, err)

	_, err = env.coordinator.RecordInitialStock(ctx, pres.ID, 50, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInitialExistant)
	assert.Equal(t, 100, env.quantity(t, pres.ID), "le second INITIAL ne doit rien écrire")
}

func TestRecordInitialStock_QuantiteInvalide(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)

	_, err := env.coordinator.RecordInitialStock(context.Background(), pres.ID, 0, "user-1")
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventes, retours, ajustements
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_DecrementeLeStock(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 100, "user-1")
	require.NoError(t, err)

	mov, err := env.coordinator.RecordSale(ctx, pres.ID, 30, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementReasonSALE, mov.Reason)
	assert.Equal(t, 30, mov.QuantityOut)
	assert.Equal(t, 100, mov.StockBefore)
	assert.Equal(t, 70, mov.StockAfter)
	assert.Equal(t, 70, env.quantity(t, pres.ID))
}

func TestRecordSale_StockInsuffisant(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 10, "user-1")
	require.NoError(t, err)

	_, err = env.coordinator.RecordSale(ctx, pres.ID, 11, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInsuffisant)
	assert.Equal(t, 10, env.quantity(t, pres.ID), "une vente refusée ne doit rien écrire")

	movements, err := env.store.Movements().ListByPresentation(pres.ID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1, "seul le mouvement INITIAL doit exister")
}

func TestRecordSale_PresentationInconnue(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.coordinator.RecordSale(context.Background(), "absent", 1, "user-1")
	assert.ErrorIs(t, err, domain.ErrIntrouvable)
}

func TestRecordReturn_AdditionneSansPlafond(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 5, "user-1")
	require.NoError(t, err)

	// Retour supérieur aux ventes passées : accepté, le livre garde la trace.
	mov, err := env.coordinator.RecordReturn(ctx, pres.ID, 50, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementReasonRETURN, mov.Reason)
	assert.Equal(t, 55, env.quantity(t, pres.ID))
}

func TestRecordAdjustment_DeltaSigne(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 20, "user-1")
	require.NoError(t, err)

	up, err := env.coordinator.RecordAdjustment(ctx, pres.ID, 7, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 7, up.QuantityIn)
	assert.Equal(t, 27, env.quantity(t, pres.ID))

	down, err := env.coordinator.RecordAdjustment(ctx, pres.ID, -12, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 12, down.QuantityOut)
	assert.Equal(t, 15, env.quantity(t, pres.ID))
}

func TestRecordAdjustment_Refus(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordAdjustment(ctx, pres.ID, 0, "user-1")
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)

	_, err = env.coordinator.RecordInitialStock(ctx, pres.ID, 3, "user-1")
	require.NoError(t, err)

	_, err = env.coordinator.RecordAdjustment(ctx, pres.ID, -4, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInsuffisant)
	assert.Equal(t, 3, env.quantity(t, pres.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrections
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordCorrection_InverseUneVente(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 100, "user-1")
	require.NoError(t, err)
	sale, err := env.coordinator.RecordSale(ctx, pres.ID, 30, "user-1")
	require.NoError(t, err)
	require.Equal(t, 70, env.quantity(t, pres.ID))

	correction, err := env.coordinator.RecordCorrection(ctx, sale.ID, "user-2")
	require.NoError(t, err)

	assert.Equal(t, entity.MovementReasonCORRECTION, correction.Reason)
	assert.Equal(t, 30, correction.QuantityIn, "la contrepartie porte le sens opposé")
	assert.Equal(t, "Correction de "+sale.ID, correction.Label)
	assert.Equal(t, sale.ID, correction.CorrectionOfID)
	assert.Equal(t, 100, env.quantity(t, pres.ID), "le stock revient à sa valeur d'avant la vente")

	orig, err := env.store.Movements().GetByID(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusACTIVE, orig.Status,
		"le mouvement d'origine reste ACTIVE : la paire se neutralise dans le livre")
}

func TestRecordCorrection_DejaCorrige(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 100, "user-1")
	require.NoError(t, err)
	sale, err := env.coordinator.RecordSale(ctx, pres.ID, 10, "user-1")
	require.NoError(t, err)

	_, err = env.coordinator.RecordCorrection(ctx, sale.ID, "user-1")
	require.NoError(t, err)

	_, err = env.coordinator.RecordCorrection(ctx, sale.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrTransitionInterdite,
		"corriger deux fois le même mouvement est interdit")
}

func TestRecordCorrection_DUneCorrectionInterdite(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 100, "user-1")
	require.NoError(t, err)
	sale, err := env.coordinator.RecordSale(ctx, pres.ID, 10, "user-1")
	require.NoError(t, err)
	correction, err := env.coordinator.RecordCorrection(ctx, sale.ID, "user-1")
	require.NoError(t, err)

	_, err = env.coordinator.RecordCorrection(ctx, correction.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrTransitionInterdite,
		"une écriture CORRECTION ne se corrige pas : passer par un ajustement")
}

func TestRecordCorrection_MouvementInconnu(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.coordinator.RecordCorrection(context.Background(), "absent", "user-1")
	assert.ErrorIs(t, err, domain.ErrIntrouvable)
}

func TestRecordCorrection_RetourInversableSeulementSiStockSuffisant(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 10, "user-1")
	require.NoError(t, err)
	ret, err := env.coordinator.RecordReturn(ctx, pres.ID, 5, "user-1")
	require.NoError(t, err) // stock 15
	_, err = env.coordinator.RecordSale(ctx, pres.ID, 12, "user-1")
	require.NoError(t, err) // stock 3

	// Inverser le retour retirerait 5 sur un stock de 3.
	_, err = env.coordinator.RecordCorrection(ctx, ret.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInsuffisant)
	assert.Equal(t, 3, env.quantity(t, pres.ID))

	correction, err := env.store.Movements().GetCorrectionOf(ret.ID)
	require.NoError(t, err)
	assert.Nil(t, correction, "rien n'a été écrit : la correction reste possible plus tard")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propriété de rejouabilité
// ──────────────────────────────────────────────────────────────────────────────

// La quantité dérivée doit toujours égaler la somme des deltas des mouvements
// ACTIVE, et chaque mouvement doit chaîner stock_before -> stock_after.
func TestQuantiteDerivee_EgaleRejeuDuLivre(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 0)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 40, "user-1")
	require.NoError(t, err)
	sale, err := env.coordinator.RecordSale(ctx, pres.ID, 15, "user-1")
	require.NoError(t, err)
	_, err = env.coordinator.RecordReturn(ctx, pres.ID, 3, "user-1")
	require.NoError(t, err)
	_, err = env.coordinator.RecordAdjustment(ctx, pres.ID, -8, "user-1")
	require.NoError(t, err)
	_, err = env.coordinator.RecordCorrection(ctx, sale.ID, "user-1")
	require.NoError(t, err)

	movements, err := env.store.Movements().ListByPresentation(pres.ID, 100, 0)
	require.NoError(t, err)

	replayed := 0
	for _, m := range movements {
		if m.IsActive() {
			replayed += m.Delta()
		}
	}
	assert.Equal(t, replayed, env.quantity(t, pres.ID),
		"le cache de quantité doit égaler le rejeu des mouvements ACTIVE")

	// Chaînage before/after sur l'historique chronologique.
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		assert.Equal(t, m.StockBefore+m.Delta(), m.StockAfter)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alerte de stock bas
// ──────────────────────────────────────────────────────────────────────────────

func TestAlerteStockBas_EmiseAuPassageDuSeuil(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 10)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 20, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, env.notifier.count(), "au-dessus du seuil : pas d'alerte")

	_, err = env.coordinator.RecordSale(ctx, pres.ID, 15, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, env.notifier.count(), "le passage à 5 (seuil 10) doit alerter")

	ev := env.notifier.events[0]
	assert.Equal(t, pres.ID, ev.PresentationID)
	assert.Equal(t, 5, ev.Quantity)
	assert.Equal(t, 10, ev.Threshold)
}

func TestAlerteStockBas_PasDAlerteSiRefus(t *testing.T) {
	env := newTestEnv(t)
	pres := env.newPresentation(t, 10)
	ctx := context.Background()

	_, err := env.coordinator.RecordInitialStock(ctx, pres.ID, 5, "user-1")
	require.NoError(t, err)
	before := env.notifier.count()

	_, err = env.coordinator.RecordSale(ctx, pres.ID, 99, "user-1")
	require.Error(t, err)
	assert.Equal(t, before, env.notifier.count(), "une mutation refusée n'alerte pas")
}
