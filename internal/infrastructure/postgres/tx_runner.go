package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/application/supply"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// Vérification statique des contrats de transaction.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ supply.TxRunner = (*TxRunner)(nil)
var _ pricing.TxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL, avec des
// dépôts attachés à la transaction. Commit si le callback réussit, Rollback
// sinon : aucune écriture partielle ne survit à un échec.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run ouvre une transaction avec les dépôts du moteur de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	presRepo repository.PresentationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewPresentationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSupply ouvre une transaction couvrant stock, approvisionnements et prix
// (réception d'une ligne de commande).
func (r *TxRunner) RunSupply(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	presRepo repository.PresentationRepository,
	supplyRepo repository.SupplyRepository,
	priceRepo repository.SellingPriceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewStockMovementRepository(tx),
		NewPresentationRepository(tx),
		NewSupplyRepository(tx),
		NewSellingPriceRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSupplyOnly ouvre une transaction avec les dépôts d'approvisionnement
// (création tout-ou-rien, marquage, suppression).
func (r *TxRunner) RunSupplyOnly(ctx context.Context, fn func(
	supplyRepo repository.SupplyRepository,
	presRepo repository.PresentationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSupplyRepository(tx), NewPresentationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPricing ouvre une transaction avec le dépôt des prix de vente : la
// séquence rétrograder-puis-promouvoir du défaut y est indivisible.
func (r *TxRunner) RunPricing(ctx context.Context, fn func(
	priceRepo repository.SellingPriceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSellingPriceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
