package pricing

import (
	"context"

	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction de BD avec un dépôt de
// prix attaché à cette transaction. La séquence rétrograder-puis-promouvoir
// du prix par défaut doit être indivisible : c'est lui qui le garantit.
type TxRunner interface {
	RunPricing(ctx context.Context, fn func(priceRepo repository.SellingPriceRepository) error) error
}
