package supply_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thierrypro75/gosbi-backend/internal/application/alert"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/application/supply"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/infrastructure/memory"
)

type noopNotifier struct{}

func (noopNotifier) LowStock(context.Context, alert.LowStockEvent) {}

type testEnv struct {
	store *memory.Store
	svc   *supply.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	coordinator := stock.NewCoordinator(store, noopNotifier{})
	return &testEnv{
		store: store,
		svc:   supply.NewService(store, coordinator, store.Supplies()),
	}
}

// newPresentation crée un produit et une présentation, retourne l'ID de la
// présentation.
func (e *testEnv) newPresentation(t *testing.T, unitLabel string) string {
	t.Helper()
	product := &entity.Product{Name: "Paracétamol 500mg"}
	require.NoError(t, e.store.Products().Create(product))
	pres := &entity.Presentation{ProductID: product.ID, UnitLabel: unitLabel}
	require.NoError(t, e.store.Presentations().Create(pres))
	return pres.ID
}

func (e *testEnv) quantity(t *testing.T, presentationID string) int {
	t.Helper()
	pres, err := e.store.Presentations().GetByID(presentationID)
	require.NoError(t, err)
	require.NotNil(t, pres)
	return pres.QuantityOnHand
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Création
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EtatInitial(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")

	sup, err := env.svc.Create(context.Background(), supply.CreateInput{
		Description: "Réassort mensuel",
		Lines: []supply.LineInput{
			{PresentationID: presID, Quantity: 50, PurchasePrice: d(1200), SellingPrice: d(2000)},
		},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.SupplyStatusCommandeInitiee, sup.Status)
	assert.Equal(t, "user-1", sup.CreatedBy)
	require.Len(t, sup.Lines, 1)
	line := sup.Lines[0]
	assert.Equal(t, entity.LineStatusEnAttente, line.Status)
	assert.Equal(t, 50, line.OrderedQuantity)
	assert.Zero(t, line.ReceivedQuantity)
	assert.NotEmpty(t, line.ProductID, "l'ID produit est résolu depuis la présentation")
}

func TestCreate_ToutOuRien(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")

	_, err := env.svc.Create(context.Background(), supply.CreateInput{
		Lines: []supply.LineInput{
			{PresentationID: presID, Quantity: 50, PurchasePrice: d(1200)},
			{PresentationID: "absente", Quantity: 10, PurchasePrice: d(800)},
		},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrIntrouvable)

	// L'échec de la seconde ligne annule toute la commande.
	supplies, listErr := env.store.Supplies().List(20, 0)
	require.NoError(t, listErr)
	assert.Empty(t, supplies)
}

func TestCreate_Refus(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	_, err := env.svc.Create(ctx, supply.CreateInput{}, "user-1")
	assert.ErrorIs(t, err, domain.ErrEntreeInvalide, "au moins une ligne est requise")

	_, err = env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 0, PurchasePrice: d(100)}},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)

	_, err = env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 5, PurchasePrice: d(-1)}},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)
}

// ──────────────────────────────────────────────────────────────────────────────
// Réception
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_PartiellePuisComplete(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)
	lineID := sup.Lines[0].ID

	line, err := env.svc.Receive(ctx, lineID, 4, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, line.ReceivedQuantity)
	assert.Equal(t, entity.LineStatusPartiellementReceptionne, line.Status)
	assert.Equal(t, 4, env.quantity(t, presID), "la réception passe par le livre de stock")

	reloaded, err := env.svc.Get(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SupplyStatusPartiellementReceptionne, reloaded.Status)

	line, err = env.svc.Receive(ctx, lineID, 6, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, line.ReceivedQuantity)
	assert.Equal(t, entity.LineStatusReceptionne, line.Status)
	assert.Equal(t, 10, env.quantity(t, presID))

	reloaded, err = env.svc.Get(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SupplyStatusReceptionne, reloaded.Status)
}

func TestReceive_DepassementRefuse(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)
	lineID := sup.Lines[0].ID

	_, err = env.svc.Receive(ctx, lineID, 7, "user-1")
	require.NoError(t, err)

	// 7 + 4 > 10 : le cumul ne peut pas dépasser la quantité commandée.
	_, err = env.svc.Receive(ctx, lineID, 4, "user-1")
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)
	assert.Equal(t, 7, env.quantity(t, presID), "le refus ne laisse aucune écriture")

	_, err = env.svc.Receive(ctx, lineID, 0, "user-1")
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)
}

func TestReceive_LigneMarqueeNonReceptionnee(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)
	lineID := sup.Lines[0].ID

	_, err = env.svc.MarkLineNotReceived(ctx, lineID)
	require.NoError(t, err)

	_, err = env.svc.Receive(ctx, lineID, 1, "user-1")
	assert.ErrorIs(t, err, domain.ErrTransitionInterdite,
		"une ligne marquée non réceptionnée ne reçoit plus rien")
}

func TestReceive_LigneInconnue(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Receive(context.Background(), "absente", 1, "user-1")
	assert.ErrorIs(t, err, domain.ErrIntrouvable)
}

func TestReceive_ReportDesPrixNegocies(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	// Prix par défaut préexistant, qui sera écrasé par le prix négocié.
	require.NoError(t, env.store.Prices().Create(&entity.SellingPrice{
		PresentationID: presID, Label: "Détail", Price: d(1800), IsDefault: true,
	}))

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{
			{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200), SellingPrice: d(2000)},
		},
	}, "user-1")
	require.NoError(t, err)

	_, err = env.svc.Receive(ctx, sup.Lines[0].ID, 3, "user-1")
	require.NoError(t, err)

	pres, err := env.store.Presentations().GetByID(presID)
	require.NoError(t, err)
	assert.True(t, pres.PurchasePrice.Equal(d(1200)), "prix d'achat reporté sur la présentation")

	prices, err := env.store.Prices().ListByPresentation(presID)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.True(t, prices[0].IsDefault)
	assert.True(t, prices[0].Price.Equal(d(2000)), "prix de vente négocié reporté sur le défaut")
}

func TestReceive_CreeLePrixStandardSiAucunPrix(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{
			{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200), SellingPrice: d(2000)},
		},
	}, "user-1")
	require.NoError(t, err)

	_, err = env.svc.Receive(ctx, sup.Lines[0].ID, 10, "user-1")
	require.NoError(t, err)

	prices, err := env.store.Prices().ListByPresentation(presID)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Standard", prices[0].Label)
	assert.True(t, prices[0].IsDefault)
	assert.True(t, prices[0].Price.Equal(d(2000)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Marquage administratif
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkLineNotReceived_AvantToutRecu(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)

	line, err := env.svc.MarkLineNotReceived(ctx, sup.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusNonReceptionne, line.Status)
	assert.Zero(t, env.quantity(t, presID), "le marquage ne touche pas au stock")

	reloaded, err := env.svc.Get(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SupplyStatusNonReceptionne, reloaded.Status,
		"rien reçu et toutes les lignes marquées : commande non réceptionnée")
}

func TestMarkLineNotReceived_ApresReceptionInterdit(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)
	lineID := sup.Lines[0].ID

	_, err = env.svc.Receive(ctx, lineID, 2, "user-1")
	require.NoError(t, err)

	_, err = env.svc.MarkLineNotReceived(ctx, lineID)
	assert.ErrorIs(t, err, domain.ErrTransitionInterdite)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suppression
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_CommandeInitiee(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, sup.ID))

	_, err = env.svc.Get(ctx, sup.ID)
	assert.ErrorIs(t, err, domain.ErrIntrouvable)
}

func TestDelete_ApresReceptionInterdit(t *testing.T) {
	env := newTestEnv(t)
	presID := env.newPresentation(t, "boîte de 20")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{{PresentationID: presID, Quantity: 10, PurchasePrice: d(1200)}},
	}, "user-1")
	require.NoError(t, err)

	_, err = env.svc.Receive(ctx, sup.Lines[0].ID, 1, "user-1")
	require.NoError(t, err)

	err = env.svc.Delete(ctx, sup.ID)
	assert.ErrorIs(t, err, domain.ErrTransitionInterdite)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agrégation multi-lignes
// ──────────────────────────────────────────────────────────────────────────────

func TestStatutAgrege_UneLigneCompleteSurDeux(t *testing.T) {
	env := newTestEnv(t)
	presA := env.newPresentation(t, "boîte de 20")
	presB := env.newPresentation(t, "flacon 100ml")
	ctx := context.Background()

	sup, err := env.svc.Create(ctx, supply.CreateInput{
		Lines: []supply.LineInput{
			{PresentationID: presA, Quantity: 10, PurchasePrice: d(1200)},
			{PresentationID: presB, Quantity: 5, PurchasePrice: d(900)},
		},
	}, "user-1")
	require.NoError(t, err)

	var lineA *entity.SupplyLine
	for _, l := range sup.Lines {
		if l.PresentationID == presA {
			lineA = l
		}
	}
	require.NotNil(t, lineA)

	_, err = env.svc.Receive(ctx, lineA.ID, 10, "user-1")
	require.NoError(t, err)

	reloaded, err := env.svc.Get(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SupplyStatusPartiellementReceptionne, reloaded.Status,
		"une ligne complète et une en attente : partiellement réceptionnée")
}
