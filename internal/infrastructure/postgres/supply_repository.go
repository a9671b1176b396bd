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

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

// SupplyRepo implémentation de SupplyRepository sur PostgreSQL.
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construit l'adaptateur. Passer pool ou tx.
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

const supplyLineColumns = `
	id, supply_id, presentation_id, product_id, ordered_quantity,
	received_quantity, purchase_price, selling_price, status, created_at, updated_at`

func scanSupplyLine(row pgx.Row) (*entity.SupplyLine, error) {
	var l entity.SupplyLine
	err := row.Scan(
		&l.ID, &l.SupplyID, &l.PresentationID, &l.ProductID,
		&l.OrderedQuantity, &l.ReceivedQuantity,
		&l.PurchasePrice, &l.SellingPrice, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste la commande et toutes ses lignes. Appeler dans une
// transaction : la première ligne en erreur annule le tout.
func (r *SupplyRepo) Create(supply *entity.Supply) error {
	if supply.ID == "" {
		supply.ID = uuid.New().String()
	}
	query := `
		INSERT INTO supplies (id, description, status, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		supply.ID, supply.Description, supply.Status,
		supply.CreatedAt, supply.UpdatedAt, supply.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create supply: %w", err)
	}
	lineQuery := `
		INSERT INTO supply_lines (
			id, supply_id, presentation_id, product_id, ordered_quantity,
			received_quantity, purchase_price, selling_price, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, line := range supply.Lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.SupplyID = supply.ID
		_, err := r.q.Exec(context.Background(), lineQuery,
			line.ID, line.SupplyID, line.PresentationID, line.ProductID,
			line.OrderedQuantity, line.ReceivedQuantity,
			line.PurchasePrice, line.SellingPrice, line.Status,
			line.CreatedAt, line.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create supply line: %w", err)
		}
	}
	return nil
}

// GetByID retourne la commande avec toutes ses lignes, nil si absente.
func (r *SupplyRepo) GetByID(id string) (*entity.Supply, error) {
	query := `
		SELECT id, description, status, created_at, updated_at, created_by
		FROM supplies WHERE id = $1`
	var s entity.Supply
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Description, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	lines, err := r.listLines(id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *SupplyRepo) listLines(supplyID string) ([]*entity.SupplyLine, error) {
	query := `SELECT ` + supplyLineColumns + `
		FROM supply_lines WHERE supply_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, supplyID)
	if err != nil {
		return nil, fmt.Errorf("list supply lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.SupplyLine
	for rows.Next() {
		l, err := scanSupplyLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// List retourne les commandes paginées, plus récentes d'abord, avec leurs
// lignes.
func (r *SupplyRepo) List(limit, offset int) ([]*entity.Supply, error) {
	query := `
		SELECT id, description, status, created_at, updated_at, created_by
		FROM supplies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supply
	for rows.Next() {
		var s entity.Supply
		if err := rows.Scan(&s.ID, &s.Description, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		lines, err := r.listLines(s.ID)
		if err != nil {
			return nil, err
		}
		s.Lines = lines
	}
	return list, nil
}

// UpdateStatus change le statut agrégé de la commande.
func (r *SupplyRepo) UpdateStatus(id, status string) error {
	query := `UPDATE supplies SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update supply status: %w", err)
	}
	return nil
}

// Delete supprime la commande et ses lignes.
func (r *SupplyRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM supply_lines WHERE supply_id = $1`, id); err != nil {
		return fmt.Errorf("delete supply lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete supply: %w", err)
	}
	return nil
}

// GetLineByID retourne une ligne par ID, nil si absente.
func (r *SupplyRepo) GetLineByID(id string) (*entity.SupplyLine, error) {
	query := `SELECT ` + supplyLineColumns + ` FROM supply_lines WHERE id = $1`
	l, err := scanSupplyLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply line: %w", err)
	}
	return l, nil
}

// GetLineForUpdate verrouille la ligne pour la durée de la transaction
// courante (cumul de réception). Ne fonctionne que sur un Querier
// transactionnel.
func (r *SupplyRepo) GetLineForUpdate(id string) (*entity.SupplyLine, error) {
	query := `SELECT ` + supplyLineColumns + ` FROM supply_lines WHERE id = $1 FOR UPDATE`
	l, err := scanSupplyLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock supply line: %w", err)
	}
	return l, nil
}

// UpdateLine écrit les champs évolutifs d'une ligne (reçu, prix négociés,
// statut). Les quantités commandées sont figées.
func (r *SupplyRepo) UpdateLine(line *entity.SupplyLine) error {
	query := `
		UPDATE supply_lines
		SET received_quantity = $2, purchase_price = $3, selling_price = $4,
		    status = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ReceivedQuantity, line.PurchasePrice, line.SellingPrice,
		line.Status, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supply line: %w", err)
	}
	return nil
}
