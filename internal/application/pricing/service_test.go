package pricing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/infrastructure/memory"
)

func newService(t *testing.T) (*pricing.Service, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	product := &entity.Product{Name: "Amoxicilline 1g"}
	require.NoError(t, store.Products().Create(product))
	pres := &entity.Presentation{ProductID: product.ID, UnitLabel: "plaquette"}
	require.NoError(t, store.Presentations().Create(pres))
	return pricing.NewService(store, store.Prices(), store.Presentations()), store, pres.ID
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// assertUnSeulDefaut vérifie l'invariant : exactement un prix par défaut dès
// qu'il existe au moins un prix.
func assertUnSeulDefaut(t *testing.T, store *memory.Store, presentationID string) {
	t.Helper()
	prices, err := store.Prices().ListByCreation(presentationID)
	require.NoError(t, err)
	if len(prices) == 0 {
		return
	}
	defaults := 0
	for _, p := range prices {
		if p.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults, "exactement un prix par défaut attendu")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajout
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_PremierPrixForceParDefaut(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	// Demandé non-défaut : forcé quand même, c'est le premier prix.
	price, err := svc.Add(ctx, presID, "Détail", d(2500), false)
	require.NoError(t, err)

	assert.True(t, price.IsDefault, "le premier prix est toujours le défaut")
	assertUnSeulDefaut(t, store, presID)
}

func TestAdd_NouveauDefautRetrogradeLAncien(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	second, err := svc.Add(ctx, presID, "Gros", d(2000), true)
	require.NoError(t, err)

	assert.True(t, second.IsDefault)
	reloaded, err := store.Prices().GetByID(first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault, "l'ancien défaut est rétrogradé dans la même transaction")
	assertUnSeulDefaut(t, store, presID)
}

func TestAdd_NonDefautLaisseLeDefautEnPlace(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	second, err := svc.Add(ctx, presID, "Promo", d(1800), false)
	require.NoError(t, err)

	assert.False(t, second.IsDefault)
	reloaded, err := store.Prices().GetByID(first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
	assertUnSeulDefaut(t, store, presID)
}

func TestAdd_Refus(t *testing.T) {
	svc, _, presID := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, presID, "Gratuit", d(0), false)
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide, "un prix doit être strictement positif")

	_, err = svc.Add(ctx, "absente", "Détail", d(100), false)
	assert.ErrorIs(t, err, domain.ErrIntrouvable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Modification
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_PromouvoirRetrogradeLeDefautCourant(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	second, err := svc.Add(ctx, presID, "Gros", d(2000), false)
	require.NoError(t, err)

	wantDefault := true
	updated, err := svc.Update(ctx, second.ID, pricing.UpdateInput{IsDefault: &wantDefault})
	require.NoError(t, err)

	assert.True(t, updated.IsDefault)
	reloaded, err := store.Prices().GetByID(first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assertUnSeulDefaut(t, store, presID)
}

func TestUpdate_RetrograderLeDefautDirectementInterdit(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	def, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	_, err = svc.Add(ctx, presID, "Gros", d(2000), false)
	require.NoError(t, err)

	notDefault := false
	_, err = svc.Update(ctx, def.ID, pricing.UpdateInput{IsDefault: &notDefault})
	assert.ErrorIs(t, err, domain.ErrPrixDefautInvariant,
		"rétrograder le défaut sans promouvoir un autre prix est interdit")
	assertUnSeulDefaut(t, store, presID)
}

func TestUpdate_MontantEtLibelle(t *testing.T) {
	svc, _, presID := newService(t)
	ctx := context.Background()

	price, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)

	label := "Détail TTC"
	amount := d(2700)
	updated, err := svc.Update(ctx, price.ID, pricing.UpdateInput{Label: &label, Price: &amount})
	require.NoError(t, err)

	assert.Equal(t, "Détail TTC", updated.Label)
	assert.True(t, updated.Price.Equal(d(2700)))
	assert.True(t, updated.IsDefault, "modifier le montant ne touche pas au défaut")
}

func TestUpdate_MontantInvalide(t *testing.T) {
	svc, _, presID := newService(t)
	ctx := context.Background()

	price, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)

	zero := d(0)
	_, err = svc.Update(ctx, price.ID, pricing.UpdateInput{Price: &zero})
	assert.ErrorIs(t, err, domain.ErrQuantiteInvalide)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suppression
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DuDefautPromeutUnAutrePrix(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	def, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	_, err = svc.Add(ctx, presID, "Gros", d(2000), false)
	require.NoError(t, err)
	_, err = svc.Add(ctx, presID, "Promo", d(1800), false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, def.ID))

	remaining, err := store.Prices().ListByPresentation(presID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assertUnSeulDefaut(t, store, presID)
	// Règle déterministe : premier par ordre de libellé.
	assert.Equal(t, "Gros", remaining[0].Label)
	assert.True(t, remaining[0].IsDefault)
}

func TestDelete_DuDernierPrixLaisseZeroPrix(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	only, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, only.ID))

	remaining, err := store.Prices().ListByPresentation(presID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "zéro prix est un état valide, aucun défaut requis")
}

func TestDelete_NonDefautNeBougePasLeDefaut(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	def, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	other, err := svc.Add(ctx, presID, "Gros", d(2000), false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, other.ID))

	reloaded, err := store.Prices().GetByID(def.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
}

func TestDelete_PrixInconnu(t *testing.T) {
	svc, _, _ := newService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "absent"), domain.ErrIntrouvable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariant sur des séquences arbitraires
// ──────────────────────────────────────────────────────────────────────────────

func TestInvariant_SurUneSequenceDOperations(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	a, err := svc.Add(ctx, presID, "A", d(100), false)
	require.NoError(t, err)
	assertUnSeulDefaut(t, store, presID)

	b, err := svc.Add(ctx, presID, "B", d(200), true)
	require.NoError(t, err)
	assertUnSeulDefaut(t, store, presID)

	_, err = svc.Add(ctx, presID, "C", d(300), true)
	require.NoError(t, err)
	assertUnSeulDefaut(t, store, presID)

	wantDefault := true
	_, err = svc.Update(ctx, a.ID, pricing.UpdateInput{IsDefault: &wantDefault})
	require.NoError(t, err)
	assertUnSeulDefaut(t, store, presID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assertUnSeulDefaut(t, store, presID)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assertUnSeulDefaut(t, store, presID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Réparation (données héritées)
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_AucunDefaut(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	// État hérité corrompu : deux prix, aucun défaut.
	require.NoError(t, store.Prices().Create(&entity.SellingPrice{PresentationID: presID, Label: "A", Price: d(100)}))
	require.NoError(t, store.Prices().Create(&entity.SellingPrice{PresentationID: presID, Label: "B", Price: d(200)}))

	require.NoError(t, svc.Reconcile(ctx, presID))

	prices, err := store.Prices().ListByCreation(presID)
	require.NoError(t, err)
	assert.True(t, prices[0].IsDefault, "le premier par ordre de création est promu")
	assert.False(t, prices[1].IsDefault)
}

func TestReconcile_PlusieursDefauts(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	require.NoError(t, store.Prices().Create(&entity.SellingPrice{PresentationID: presID, Label: "A", Price: d(100), IsDefault: true}))
	require.NoError(t, store.Prices().Create(&entity.SellingPrice{PresentationID: presID, Label: "B", Price: d(200), IsDefault: true}))
	require.NoError(t, store.Prices().Create(&entity.SellingPrice{PresentationID: presID, Label: "C", Price: d(300), IsDefault: true}))

	require.NoError(t, svc.Reconcile(ctx, presID))

	prices, err := store.Prices().ListByCreation(presID)
	require.NoError(t, err)
	assert.True(t, prices[0].IsDefault, "seul le premier par ordre de création est conservé")
	assert.False(t, prices[1].IsDefault)
	assert.False(t, prices[2].IsDefault)
}

func TestReconcile_EtatSainInchange(t *testing.T) {
	svc, store, presID := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, presID, "Détail", d(2500), true)
	require.NoError(t, err)
	_, err = svc.Add(ctx, presID, "Gros", d(2000), false)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, presID))
	assertUnSeulDefaut(t, store, presID)
}
