package stock

import (
	"context"

	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction de BD, en passant des
// dépôts attachés à cette transaction. Garantit l'atomicité des séquences
// lire-puis-écrire du moteur de stock : soit le mouvement et la quantité
// dérivée sont écrits ensemble, soit rien ne l'est.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		presRepo repository.PresentationRepository,
	) error) error

	// RunSupply ouvre une transaction couvrant aussi les approvisionnements
	// et les prix de vente (réception d'une ligne de commande).
	RunSupply(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		presRepo repository.PresentationRepository,
		supplyRepo repository.SupplyRepository,
		priceRepo repository.SellingPriceRepository,
	) error) error
}
