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

var _ repository.SellingPriceRepository = (*SellingPriceRepo)(nil)

// SellingPriceRepo implémentation de SellingPriceRepository sur PostgreSQL.
type SellingPriceRepo struct {
	q Querier
}

// NewSellingPriceRepository construit l'adaptateur. Passer pool ou tx.
func NewSellingPriceRepository(q Querier) *SellingPriceRepo {
	return &SellingPriceRepo{q: q}
}

const priceColumns = `
	id, presentation_id, label, price, is_default, created_at, updated_at`

func scanPrice(row pgx.Row) (*entity.SellingPrice, error) {
	var p entity.SellingPrice
	err := row.Scan(
		&p.ID, &p.PresentationID, &p.Label, &p.Price, &p.IsDefault,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un prix de vente.
func (r *SellingPriceRepo) Create(price *entity.SellingPrice) error {
	if price.ID == "" {
		price.ID = uuid.New().String()
	}
	query := `
		INSERT INTO selling_prices (
			id, presentation_id, label, price, is_default, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		price.ID, price.PresentationID, price.Label, price.Price,
		price.IsDefault, price.CreatedAt, price.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create selling price: %w", err)
	}
	return nil
}

// GetByID retourne un prix par ID, nil s'il n'existe pas.
func (r *SellingPriceRepo) GetByID(id string) (*entity.SellingPrice, error) {
	query := `SELECT ` + priceColumns + ` FROM selling_prices WHERE id = $1`
	p, err := scanPrice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get selling price: %w", err)
	}
	return p, nil
}

// ListByPresentation retourne les prix, défaut d'abord puis par libellé.
func (r *SellingPriceRepo) ListByPresentation(presentationID string) ([]*entity.SellingPrice, error) {
	query := `SELECT ` + priceColumns + `
		FROM selling_prices
		WHERE presentation_id = $1
		ORDER BY is_default DESC, label`
	return r.list(query, presentationID)
}

// ListByCreation retourne les prix par ordre de création.
func (r *SellingPriceRepo) ListByCreation(presentationID string) ([]*entity.SellingPrice, error) {
	query := `SELECT ` + priceColumns + `
		FROM selling_prices
		WHERE presentation_id = $1
		ORDER BY created_at, id`
	return r.list(query, presentationID)
}

func (r *SellingPriceRepo) list(query, presentationID string) ([]*entity.SellingPrice, error) {
	rows, err := r.q.Query(context.Background(), query, presentationID)
	if err != nil {
		return nil, fmt.Errorf("list selling prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.SellingPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan selling price: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update modifie libellé, montant et drapeau défaut d'un prix.
func (r *SellingPriceRepo) Update(price *entity.SellingPrice) error {
	query := `
		UPDATE selling_prices
		SET label = $2, price = $3, is_default = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		price.ID, price.Label, price.Price, price.IsDefault, price.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update selling price: %w", err)
	}
	return nil
}

// DemoteAll retire le drapeau défaut de tous les prix de la présentation.
func (r *SellingPriceRepo) DemoteAll(presentationID string) error {
	query := `
		UPDATE selling_prices
		SET is_default = false, updated_at = $2
		WHERE presentation_id = $1 AND is_default = true`
	_, err := r.q.Exec(context.Background(), query, presentationID, time.Now())
	if err != nil {
		return fmt.Errorf("demote selling prices: %w", err)
	}
	return nil
}

// SetDefault positionne le drapeau défaut d'un prix donné.
func (r *SellingPriceRepo) SetDefault(id string, isDefault bool) error {
	query := `UPDATE selling_prices SET is_default = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, isDefault, time.Now())
	if err != nil {
		return fmt.Errorf("set default selling price: %w", err)
	}
	return nil
}

// Delete supprime un prix.
func (r *SellingPriceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM selling_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete selling price: %w", err)
	}
	return nil
}
