package supply

import (
	"context"

	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction de BD avec les dépôts
// d'approvisionnement attachés à cette transaction (création tout-ou-rien,
// suppression contrôlée, marquage administratif).
type TxRunner interface {
	RunSupplyOnly(ctx context.Context, fn func(
		supplyRepo repository.SupplyRepository,
		presRepo repository.PresentationRepository,
	) error) error
}
