package repository

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// SupplyRepository définit le port de persistance des approvisionnements et
// de leurs lignes. Create persiste la commande et toutes ses lignes; si une
// ligne échoue, rien n'est écrit (tout-ou-rien, garanti par la transaction).
type SupplyRepository interface {
	Create(supply *entity.Supply) error
	GetByID(id string) (*entity.Supply, error)
	List(limit, offset int) ([]*entity.Supply, error)
	UpdateStatus(id, status string) error
	Delete(id string) error

	GetLineByID(id string) (*entity.SupplyLine, error)
	// GetLineForUpdate verrouille la ligne (SELECT FOR UPDATE) pour le
	// cumul de réception.
	GetLineForUpdate(id string) (*entity.SupplyLine, error)
	UpdateLine(line *entity.SupplyLine) error
}
