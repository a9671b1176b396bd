// Package memory fournit une implémentation en mémoire des ports de
// persistance et des contrats de transaction. Utilisée par les tests des
// couches application. Les "transactions" n'offrent pas de rollback : les
// services valident avant d'écrire, et les tests sont séquentiels.
package memory

import (
	"context"
	"sync"

	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/application/supply"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// Store contient toutes les tables en mémoire, partagées par les dépôts
// construits dessus. Le mutex protège chaque opération de dépôt; l'ordre
// d'insertion dans les tranches tient lieu de chronologie.
type Store struct {
	mu sync.Mutex

	products      map[string]entity.Product
	presentations map[string]entity.Presentation
	movements     []entity.StockMovement // ordre d'insertion = ordre chronologique
	prices        []entity.SellingPrice  // idem
	supplies      map[string]entity.Supply
	lines         []entity.SupplyLine
	users         map[string]entity.User
}

// NewStore construit un magasin vide.
func NewStore() *Store {
	return &Store{
		products:      map[string]entity.Product{},
		presentations: map[string]entity.Presentation{},
		supplies:      map[string]entity.Supply{},
		users:         map[string]entity.User{},
	}
}

// Accesseurs de dépôts. Tous partagent les mêmes tables.

func (s *Store) Products() *ProductRepo           { return &ProductRepo{s: s} }
func (s *Store) Presentations() *PresentationRepo { return &PresentationRepo{s: s} }
func (s *Store) Movements() *StockMovementRepo    { return &StockMovementRepo{s: s} }
func (s *Store) Prices() *SellingPriceRepo        { return &SellingPriceRepo{s: s} }
func (s *Store) Supplies() *SupplyRepo            { return &SupplyRepo{s: s} }
func (s *Store) Users() *UserRepo                 { return &UserRepo{s: s} }

// ── Transactions ────────────────────────────────────────────────────────────

// Vérification statique des contrats de transaction.
var (
	_ stock.TxRunner   = (*Store)(nil)
	_ supply.TxRunner  = (*Store)(nil)
	_ pricing.TxRunner = (*Store)(nil)
)

// Run exécute fn avec les dépôts du moteur de stock.
func (s *Store) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	presRepo repository.PresentationRepository,
) error) error {
	return fn(s.Movements(), s.Presentations())
}

// RunSupply exécute fn avec stock, approvisionnements et prix.
func (s *Store) RunSupply(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	presRepo repository.PresentationRepository,
	supplyRepo repository.SupplyRepository,
	priceRepo repository.SellingPriceRepository,
) error) error {
	return fn(s.Movements(), s.Presentations(), s.Supplies(), s.Prices())
}

// RunSupplyOnly exécute fn avec les dépôts d'approvisionnement.
func (s *Store) RunSupplyOnly(_ context.Context, fn func(
	supplyRepo repository.SupplyRepository,
	presRepo repository.PresentationRepository,
) error) error {
	return fn(s.Supplies(), s.Presentations())
}

// RunPricing exécute fn avec le dépôt des prix.
func (s *Store) RunPricing(_ context.Context, fn func(
	priceRepo repository.SellingPriceRepository,
) error) error {
	return fn(s.Prices())
}
