package repository

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// StockMovementRepository définit le port de persistance du livre des
// mouvements (append-only : les écritures ne sont jamais modifiées, hormis
// le passage de statut ACTIVE -> CANCELLED).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// GetLatestActive retourne le dernier mouvement ACTIVE de la
	// présentation, ou nil s'il n'en existe aucun.
	GetLatestActive(presentationID string) (*entity.StockMovement, error)
	ListByPresentation(presentationID string, limit, offset int) ([]*entity.StockMovement, error)
	// CountByPresentation compte les mouvements de la présentation,
	// tous statuts confondus. excludeInitial exclut les écritures INITIAL
	// (contrôle de suppression d'une présentation).
	CountByPresentation(presentationID string, excludeInitial bool) (int, error)
	// GetCorrectionOf retourne l'écriture CORRECTION qui inverse le
	// mouvement donné, nil s'il n'a jamais été corrigé.
	GetCorrectionOf(movementID string) (*entity.StockMovement, error)
	UpdateStatus(id, status string) error
}
