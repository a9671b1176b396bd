package repository

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// PresentationRepository définit le port de persistance des présentations.
// GetForUpdate verrouille la ligne (SELECT FOR UPDATE) : toute séquence
// lire-puis-écrire sur le stock d'une présentation doit passer par lui.
type PresentationRepository interface {
	Create(p *entity.Presentation) error
	GetByID(id string) (*entity.Presentation, error)
	GetForUpdate(id string) (*entity.Presentation, error)
	ListByProduct(productID string) ([]*entity.Presentation, error)
	List(lowStockOnly bool, limit, offset int) ([]*entity.Presentation, error)
	Update(p *entity.Presentation) error
	// UpdateQuantity écrit le cache de quantité dérivée. Réservé au moteur
	// de stock, dans la même transaction que le mouvement correspondant.
	UpdateQuantity(id string, quantity int) error
	Delete(id string) error
}
