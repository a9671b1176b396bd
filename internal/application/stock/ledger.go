package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// Ledger est le moteur du livre de stock : toute variation de quantité passe
// par Append, qui écrit une écriture immuable et met à jour le cache de
// quantité de la présentation dans la même transaction. Les méthodes opèrent
// sur des dépôts liés à la transaction de l'appelant (le coordinateur).
type Ledger struct{}

// AppendInput décrit l'écriture à ajouter. Exactement un des deux champs
// QuantityIn/QuantityOut doit être strictement positif.
type AppendInput struct {
	PresentationID string
	QuantityIn     int
	QuantityOut    int
	Reason         string
	Label          string
	CorrectionOf   string // ID du mouvement inversé (écritures CORRECTION)
	By             string
}

// CurrentQuantity retourne le stockAfter du dernier mouvement ACTIVE de la
// présentation, ou 0 s'il n'existe aucun mouvement (base de départ).
func (Ledger) CurrentQuantity(movRepo repository.StockMovementRepository, presentationID string) (int, error) {
	latest, err := movRepo.GetLatestActive(presentationID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.StockAfter, nil
}

// Append verrouille la présentation, calcule stockBefore depuis l'état
// courant, applique le delta signé et persiste le mouvement ACTIVE plus la
// quantité dérivée. Retourne ErrStockNegatif si stockAfter < 0 : rien n'est
// écrit dans ce cas (la transaction de l'appelant est annulée).
func (l Ledger) Append(
	movRepo repository.StockMovementRepository,
	presRepo repository.PresentationRepository,
	in AppendInput,
) (*entity.StockMovement, error) {
	if (in.QuantityIn > 0) == (in.QuantityOut > 0) || in.QuantityIn < 0 || in.QuantityOut < 0 {
		return nil, domain.ErrQuantiteInvalide
	}

	// Verrou de ligne : sérialise les séquences lire-puis-écrire
	// concurrentes sur la même présentation.
	pres, err := presRepo.GetForUpdate(in.PresentationID)
	if err != nil {
		return nil, err
	}
	if pres == nil {
		return nil, domain.ErrIntrouvable
	}

	before, err := l.CurrentQuantity(movRepo, in.PresentationID)
	if err != nil {
		return nil, err
	}
	after := before + in.QuantityIn - in.QuantityOut
	if after < 0 {
		return nil, domain.ErrStockNegatif
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		PresentationID: in.PresentationID,
		ProductID:      pres.ProductID,
		QuantityIn:     in.QuantityIn,
		QuantityOut:    in.QuantityOut,
		StockBefore:    before,
		StockAfter:     after,
		Reason:         in.Reason,
		Status:         entity.MovementStatusACTIVE,
		Label:          in.Label,
		CorrectionOfID: in.CorrectionOf,
		CreatedAt:      now,
		CreatedBy:      in.By,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	if err := presRepo.UpdateQuantity(in.PresentationID, after); err != nil {
		return nil, err
	}
	return mov, nil
}

// Cancel passe un mouvement de ACTIVE à CANCELLED (annulation logique,
// jamais de suppression physique). Aucun mouvement de compensation n'est
// créé ici : l'appelant qui veut inverser l'effet ajoute une écriture de
// sens opposé avec le motif CORRECTION.
func (Ledger) Cancel(movRepo repository.StockMovementRepository, movementID string) (*entity.StockMovement, error) {
	mov, err := movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrIntrouvable
	}
	if mov.Status != entity.MovementStatusACTIVE {
		return nil, domain.ErrTransitionInterdite
	}
	if err := movRepo.UpdateStatus(movementID, entity.MovementStatusCANCELLED); err != nil {
		return nil, err
	}
	mov.Status = entity.MovementStatusCANCELLED
	return mov, nil
}
