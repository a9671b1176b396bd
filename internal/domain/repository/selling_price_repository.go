package repository

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// SellingPriceRepository définit le port de persistance des prix de vente.
// DemoteAll et les écritures qui promeuvent un prix doivent s'exécuter dans
// la même transaction pour préserver l'invariant "exactement un défaut".
type SellingPriceRepository interface {
	Create(price *entity.SellingPrice) error
	GetByID(id string) (*entity.SellingPrice, error)
	// ListByPresentation retourne les prix triés défaut d'abord, puis par
	// libellé.
	ListByPresentation(presentationID string) ([]*entity.SellingPrice, error)
	// ListByCreation retourne les prix triés par ordre de création
	// (utilisé par la réparation d'invariant).
	ListByCreation(presentationID string) ([]*entity.SellingPrice, error)
	Update(price *entity.SellingPrice) error
	// DemoteAll passe IsDefault à false pour tous les prix de la
	// présentation.
	DemoteAll(presentationID string) error
	SetDefault(id string, isDefault bool) error
	Delete(id string) error
}
