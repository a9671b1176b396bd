package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

var _ repository.PresentationRepository = (*PresentationRepo)(nil)

// PresentationRepo implémentation de PresentationRepository sur PostgreSQL.
type PresentationRepo struct {
	q Querier
}

// NewPresentationRepository construit l'adaptateur. Passer pool ou tx.
func NewPresentationRepository(q Querier) *PresentationRepo {
	return &PresentationRepo{q: q}
}

const presentationColumns = `
	id, product_id, unit_label, sku, purchase_price,
	quantity_on_hand, low_stock_threshold, created_at, updated_at`

func scanPresentation(row pgx.Row) (*entity.Presentation, error) {
	var p entity.Presentation
	err := row.Scan(
		&p.ID, &p.ProductID, &p.UnitLabel, &p.SKU, &p.PurchasePrice,
		&p.QuantityOnHand, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste une présentation.
func (r *PresentationRepo) Create(p *entity.Presentation) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO presentations (
			id, product_id, unit_label, sku, purchase_price,
			quantity_on_hand, low_stock_threshold, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ProductID, p.UnitLabel, p.SKU, p.PurchasePrice,
		p.QuantityOnHand, p.LowStockThreshold, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create presentation: %w", err)
	}
	return nil
}

// GetByID retourne une présentation par ID, nil si absente.
func (r *PresentationRepo) GetByID(id string) (*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations WHERE id = $1`
	p, err := scanPresentation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	return p, nil
}

// GetForUpdate verrouille la ligne pour la durée de la transaction courante.
// Ne fonctionne que sur un Querier transactionnel.
func (r *PresentationRepo) GetForUpdate(id string) (*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations WHERE id = $1 FOR UPDATE`
	p, err := scanPresentation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock presentation: %w", err)
	}
	return p, nil
}

// ListByProduct retourne les présentations d'un produit, par libellé d'unité.
func (r *PresentationRepo) ListByProduct(productID string) ([]*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + `
		FROM presentations WHERE product_id = $1 ORDER BY unit_label`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list presentations by product: %w", err)
	}
	defer rows.Close()
	return collectPresentations(rows)
}

// List retourne les présentations paginées. lowStockOnly restreint aux
// présentations au niveau (ou en dessous) de leur seuil d'alerte.
func (r *PresentationRepo) List(lowStockOnly bool, limit, offset int) ([]*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations`
	if lowStockOnly {
		query += ` WHERE quantity_on_hand <= low_stock_threshold`
	}
	query += ` ORDER BY unit_label LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()
	return collectPresentations(rows)
}

func collectPresentations(rows pgx.Rows) ([]*entity.Presentation, error) {
	var list []*entity.Presentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update modifie les champs éditables d'une présentation. La quantité en
// main n'est jamais touchée ici (voir UpdateQuantity).
func (r *PresentationRepo) Update(p *entity.Presentation) error {
	query := `
		UPDATE presentations
		SET unit_label = $2, sku = $3, purchase_price = $4,
		    low_stock_threshold = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.UnitLabel, p.SKU, p.PurchasePrice, p.LowStockThreshold, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}
	return nil
}

// UpdateQuantity écrit le cache de quantité dérivée.
func (r *PresentationRepo) UpdateQuantity(id string, quantity int) error {
	query := `UPDATE presentations SET quantity_on_hand = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("update presentation quantity: %w", err)
	}
	return nil
}

// Delete supprime une présentation.
func (r *PresentationRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM presentations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	return nil
}
