package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implémentation de StockMovementRepository sur PostgreSQL.
// La table est append-only : aucun UPDATE hormis le changement de statut.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construit l'adaptateur. Passer pool ou tx.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `
	id, presentation_id, product_id, quantity_in, quantity_out,
	stock_before, stock_after, reason, status, label, correction_of_id,
	created_at, created_by`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.PresentationID, &m.ProductID, &m.QuantityIn, &m.QuantityOut,
		&m.StockBefore, &m.StockAfter, &m.Reason, &m.Status, &m.Label,
		&m.CorrectionOfID, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un mouvement.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (
			id, presentation_id, product_id, quantity_in, quantity_out,
			stock_before, stock_after, reason, status, label, correction_of_id,
			created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.PresentationID, movement.ProductID,
		movement.QuantityIn, movement.QuantityOut,
		movement.StockBefore, movement.StockAfter,
		movement.Reason, movement.Status, movement.Label, movement.CorrectionOfID,
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID retourne un mouvement par ID, nil s'il n'existe pas.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// GetLatestActive retourne le dernier mouvement ACTIVE de la présentation,
// nil si le livre est vide (ou entièrement annulé).
func (r *StockMovementRepo) GetLatestActive(presentationID string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE presentation_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query,
		presentationID, entity.MovementStatusACTIVE))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest active movement: %w", err)
	}
	return m, nil
}

// ListByPresentation retourne l'historique d'une présentation, plus récent
// d'abord (mouvements annulés inclus).
func (r *StockMovementRepo) ListByPresentation(presentationID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE presentation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, presentationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByPresentation compte les mouvements, tous statuts confondus.
func (r *StockMovementRepo) CountByPresentation(presentationID string, excludeInitial bool) (int, error) {
	query := `SELECT COUNT(*) FROM stock_movements WHERE presentation_id = $1`
	args := []interface{}{presentationID}
	if excludeInitial {
		query += ` AND reason <> $2`
		args = append(args, entity.MovementReasonINITIAL)
	}
	var count int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return count, nil
}

// GetCorrectionOf retourne l'écriture CORRECTION qui inverse le mouvement
// donné, nil s'il n'a jamais été corrigé.
func (r *StockMovementRepo) GetCorrectionOf(movementID string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE correction_of_id = $1
		LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get correction of movement: %w", err)
	}
	return m, nil
}

// UpdateStatus change le statut d'un mouvement (ACTIVE -> CANCELLED).
func (r *StockMovementRepo) UpdateStatus(id, status string) error {
	query := `UPDATE stock_movements SET status = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	return nil
}
