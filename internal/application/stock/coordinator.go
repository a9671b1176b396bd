package stock

import (
	"context"
	"time"

	"github.com/thierrypro75/gosbi-backend/internal/application/alert"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
	supplydom "github.com/thierrypro75/gosbi-backend/internal/domain/supply"
)

// Coordinator est l'unique point d'entrée des événements métier vers le
// moteur de stock : une opération par motif, chacune exécutée dans une seule
// transaction (un mouvement + une quantité dérivée, tout-ou-rien). Émet une
// alerte de stock bas après commit quand la quantité passe au seuil.
type Coordinator struct {
	txRunner TxRunner
	notifier alert.Notifier
	ledger   Ledger
}

// NewCoordinator construit le coordinateur de mutations.
func NewCoordinator(txRunner TxRunner, notifier alert.Notifier) *Coordinator {
	return &Coordinator{txRunner: txRunner, notifier: notifier}
}

// RecordInitialStock enregistre le stock de départ d'une présentation, motif
// INITIAL. Permis une seule fois : échoue si un mouvement existe déjà.
func (c *Coordinator) RecordInitialStock(ctx context.Context, presentationID string, quantity int, by string) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.ErrQuantiteInvalide
	}
	var mov *entity.StockMovement
	err := c.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, presRepo repository.PresentationRepository) error {
		count, err := movRepo.CountByPresentation(presentationID, false)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrStockInitialExistant
		}
		mov, err = c.ledger.Append(movRepo, presRepo, AppendInput{
			PresentationID: presentationID,
			QuantityIn:     quantity,
			Reason:         entity.MovementReasonINITIAL,
			Label:          "Stock initial",
			By:             by,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordSale enregistre une vente, motif SALE. Retourne ErrStockInsuffisant
// si la quantité en main est insuffisante; rien n'est écrit dans ce cas.
func (c *Coordinator) RecordSale(ctx context.Context, presentationID string, quantity int, by string) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.ErrQuantiteInvalide
	}
	return c.appendAndAlert(ctx, AppendInput{
		PresentationID: presentationID,
		QuantityOut:    quantity,
		Reason:         entity.MovementReasonSALE,
		By:             by,
	}, true)
}

// RecordReturn enregistre un retour client, motif RETURN. Toujours additif :
// aucun plafond lié aux ventes antérieures (décision de politique, voir
// DESIGN.md).
func (c *Coordinator) RecordReturn(ctx context.Context, presentationID string, quantity int, by string) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.ErrQuantiteInvalide
	}
	return c.appendAndAlert(ctx, AppendInput{
		PresentationID: presentationID,
		QuantityIn:     quantity,
		Reason:         entity.MovementReasonRETURN,
		By:             by,
	}, false)
}

// RecordAdjustment enregistre un ajustement manuel, motif ADJUSTMENT. Le
// delta peut être positif ou négatif; un résultat négatif est rejeté avec
// ErrStockInsuffisant.
func (c *Coordinator) RecordAdjustment(ctx context.Context, presentationID string, delta int, by string) (*entity.StockMovement, error) {
	if delta == 0 {
		return nil, domain.ErrQuantiteInvalide
	}
	in := AppendInput{
		PresentationID: presentationID,
		Reason:         entity.MovementReasonADJUSTMENT,
		By:             by,
	}
	if delta > 0 {
		in.QuantityIn = delta
	} else {
		in.QuantityOut = -delta
	}
	return c.appendAndAlert(ctx, in, true)
}

// RecordCorrection inverse l'effet d'un mouvement en ajoutant l'écriture de
// sens opposé (motif CORRECTION, liée à l'original par CorrectionOfID). Le
// mouvement d'origine reste ACTIVE : la paire se neutralise dans le livre,
// ce qui garde la somme des deltas ACTIVE égale au stockAfter de la dernière
// écriture ACTIVE. Un mouvement ne peut être corrigé qu'une fois, et une
// écriture CORRECTION ne se corrige pas (ajuster à la place).
func (c *Coordinator) RecordCorrection(ctx context.Context, movementID, by string) (*entity.StockMovement, error) {
	var correction *entity.StockMovement
	var lowStock *alert.LowStockEvent
	err := c.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, presRepo repository.PresentationRepository) error {
		orig, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrIntrouvable
		}
		if orig.Status != entity.MovementStatusACTIVE || orig.Reason == entity.MovementReasonCORRECTION {
			return domain.ErrTransitionInterdite
		}
		existing, err := movRepo.GetCorrectionOf(orig.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrTransitionInterdite
		}
		correction, err = c.ledger.Append(movRepo, presRepo, AppendInput{
			PresentationID: orig.PresentationID,
			QuantityIn:     orig.QuantityOut,
			QuantityOut:    orig.QuantityIn,
			Reason:         entity.MovementReasonCORRECTION,
			Label:          "Correction de " + orig.ID,
			CorrectionOf:   orig.ID,
			By:             by,
		})
		if err != nil {
			if err == domain.ErrStockNegatif {
				return domain.ErrStockInsuffisant
			}
			return err
		}
		lowStock = c.lowStockEvent(presRepo, orig.PresentationID, correction.StockAfter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, lowStock)
	return correction, nil
}

// RecordSupplyReceipt cumule une réception sur une ligne de commande :
// verrouille la ligne, rejette tout dépassement de la quantité commandée,
// ajoute l'écriture SUPPLY, reporte les prix négociés et recalcule les
// statuts de la ligne et de la commande — le tout dans une transaction.
func (c *Coordinator) RecordSupplyReceipt(ctx context.Context, lineID string, quantityNow int, by string) (*entity.SupplyLine, error) {
	if quantityNow <= 0 {
		return nil, domain.ErrQuantiteInvalide
	}
	var received *entity.SupplyLine
	err := c.txRunner.RunSupply(ctx, func(
		movRepo repository.StockMovementRepository,
		presRepo repository.PresentationRepository,
		supplyRepo repository.SupplyRepository,
		priceRepo repository.SellingPriceRepository,
	) error {
		line, err := supplyRepo.GetLineForUpdate(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrIntrouvable
		}
		if line.Status == entity.LineStatusNonReceptionne {
			return domain.ErrTransitionInterdite
		}
		newReceived := line.ReceivedQuantity + quantityNow
		if newReceived > line.OrderedQuantity {
			return domain.ErrQuantiteInvalide
		}

		if _, err := c.ledger.Append(movRepo, presRepo, AppendInput{
			PresentationID: line.PresentationID,
			QuantityIn:     quantityNow,
			Reason:         entity.MovementReasonSUPPLY,
			Label:          "Réception commande " + line.SupplyID,
			By:             by,
		}); err != nil {
			return err
		}

		line.ReceivedQuantity = newReceived
		line.Status = supplydom.LineStatus(line.OrderedQuantity, newReceived)
		line.UpdatedAt = time.Now()
		if err := supplyRepo.UpdateLine(line); err != nil {
			return err
		}

		if err := c.applyNegotiatedPrices(presRepo, priceRepo, line, by); err != nil {
			return err
		}

		// Recalcul du statut agrégé de la commande sur l'état frais des lignes.
		sup, err := supplyRepo.GetByID(line.SupplyID)
		if err != nil {
			return err
		}
		if sup == nil {
			return domain.ErrIntrouvable
		}
		if err := supplyRepo.UpdateStatus(sup.ID, supplydom.OrderStatus(sup.Lines)); err != nil {
			return err
		}
		received = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// applyNegotiatedPrices reporte les prix négociés de la ligne sur la
// présentation : prix d'achat, et prix de vente sur le prix par défaut
// existant (ou en le créant s'il n'y a aucun prix). Le passage par le dépôt
// de prix conserve l'invariant du défaut unique.
func (c *Coordinator) applyNegotiatedPrices(
	presRepo repository.PresentationRepository,
	priceRepo repository.SellingPriceRepository,
	line *entity.SupplyLine,
	by string,
) error {
	pres, err := presRepo.GetByID(line.PresentationID)
	if err != nil {
		return err
	}
	if pres == nil {
		return domain.ErrIntrouvable
	}
	if line.PurchasePrice.IsPositive() && !pres.PurchasePrice.Equal(line.PurchasePrice) {
		pres.PurchasePrice = line.PurchasePrice
		if err := presRepo.Update(pres); err != nil {
			return err
		}
	}
	if !line.SellingPrice.IsPositive() {
		return nil
	}
	prices, err := priceRepo.ListByPresentation(line.PresentationID)
	if err != nil {
		return err
	}
	for _, p := range prices {
		if p.IsDefault {
			if p.Price.Equal(line.SellingPrice) {
				return nil
			}
			p.Price = line.SellingPrice
			p.UpdatedAt = time.Now()
			return priceRepo.Update(p)
		}
	}
	now := time.Now()
	return priceRepo.Create(&entity.SellingPrice{
		PresentationID: line.PresentationID,
		Label:          "Standard",
		Price:          line.SellingPrice,
		IsDefault:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// appendAndAlert exécute un Append simple dans une transaction et émet
// l'alerte de stock bas après commit. mapNegatif traduit ErrStockNegatif en
// ErrStockInsuffisant pour les opérations où le manque de stock est la cause
// métier (vente, ajustement négatif).
func (c *Coordinator) appendAndAlert(ctx context.Context, in AppendInput, mapNegatif bool) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	var lowStock *alert.LowStockEvent
	err := c.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, presRepo repository.PresentationRepository) error {
		var err error
		mov, err = c.ledger.Append(movRepo, presRepo, in)
		if err != nil {
			if mapNegatif && err == domain.ErrStockNegatif {
				return domain.ErrStockInsuffisant
			}
			return err
		}
		lowStock = c.lowStockEvent(presRepo, in.PresentationID, mov.StockAfter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, lowStock)
	return mov, nil
}

// lowStockEvent construit l'événement d'alerte si la quantité résultante est
// au seuil ou en dessous. Lecture dans la transaction; émission après commit.
func (c *Coordinator) lowStockEvent(presRepo repository.PresentationRepository, presentationID string, quantity int) *alert.LowStockEvent {
	pres, err := presRepo.GetByID(presentationID)
	if err != nil || pres == nil {
		return nil
	}
	if quantity > pres.LowStockThreshold {
		return nil
	}
	return &alert.LowStockEvent{
		PresentationID: pres.ID,
		ProductID:      pres.ProductID,
		UnitLabel:      pres.UnitLabel,
		SKU:            pres.SKU,
		Quantity:       quantity,
		Threshold:      pres.LowStockThreshold,
		At:             time.Now(),
	}
}

func (c *Coordinator) notify(ctx context.Context, ev *alert.LowStockEvent) {
	if ev == nil || c.notifier == nil {
		return
	}
	c.notifier.LowStock(ctx, *ev)
}
