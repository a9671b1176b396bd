package supply

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
	supplydom "github.com/thierrypro75/gosbi-backend/internal/domain/supply"
)

// Service porte le cycle de vie des approvisionnements : création
// tout-ou-rien, réception incrémentale (déléguée au coordinateur de
// mutations), marquage administratif et suppression contrôlée.
type Service struct {
	txRunner    TxRunner
	coordinator *stock.Coordinator
	supplyRepo  repository.SupplyRepository // lié au pool, lectures hors transaction
}

// NewService construit le service d'approvisionnement.
func NewService(txRunner TxRunner, coordinator *stock.Coordinator, supplyRepo repository.SupplyRepository) *Service {
	return &Service{txRunner: txRunner, coordinator: coordinator, supplyRepo: supplyRepo}
}

// LineInput décrit une ligne à commander.
type LineInput struct {
	PresentationID string
	Quantity       int
	PurchasePrice  decimal.Decimal
	SellingPrice   decimal.Decimal
}

// CreateInput décrit la commande à créer.
type CreateInput struct {
	Description string
	Lines       []LineInput
}

// Create valide chaque ligne (quantité > 0, prix d'achat non négatif,
// présentation existante) avant d'écrire quoi que ce soit : l'échec d'une
// seule ligne annule la création de toute la commande. État initial :
// COMMANDE_INITIEE, toutes les lignes EN_ATTENTE à zéro reçu.
func (s *Service) Create(ctx context.Context, in CreateInput, by string) (*entity.Supply, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEntreeInvalide
	}
	now := time.Now()
	sup := &entity.Supply{
		ID:          uuid.New().String(),
		Description: in.Description,
		Status:      entity.SupplyStatusCommandeInitiee,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   by,
	}
	err := s.txRunner.RunSupplyOnly(ctx, func(supplyRepo repository.SupplyRepository, presRepo repository.PresentationRepository) error {
		for _, l := range in.Lines {
			if l.Quantity <= 0 {
				return domain.ErrQuantiteInvalide
			}
			if l.PurchasePrice.IsNegative() || l.SellingPrice.IsNegative() {
				return domain.ErrQuantiteInvalide
			}
			pres, err := presRepo.GetByID(l.PresentationID)
			if err != nil {
				return err
			}
			if pres == nil {
				return domain.ErrIntrouvable
			}
			sup.Lines = append(sup.Lines, &entity.SupplyLine{
				ID:               uuid.New().String(),
				SupplyID:         sup.ID,
				PresentationID:   l.PresentationID,
				ProductID:        pres.ProductID,
				OrderedQuantity:  l.Quantity,
				ReceivedQuantity: 0,
				PurchasePrice:    l.PurchasePrice,
				SellingPrice:     l.SellingPrice,
				Status:           entity.LineStatusEnAttente,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		}
		return supplyRepo.Create(sup)
	})
	if err != nil {
		return nil, err
	}
	return sup, nil
}

// Get retourne une commande et ses lignes.
func (s *Service) Get(ctx context.Context, id string) (*entity.Supply, error) {
	sup, err := s.supplyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.ErrIntrouvable
	}
	return sup, nil
}

// List retourne les commandes, les plus récentes d'abord.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entity.Supply, error) {
	return s.supplyRepo.List(limit, offset)
}

// Receive cumule une réception sur une ligne via le coordinateur de
// mutations : écriture SUPPLY au livre, report des prix négociés et recalcul
// des statuts, en une seule transaction.
func (s *Service) Receive(ctx context.Context, lineID string, quantity int, by string) (*entity.SupplyLine, error) {
	return s.coordinator.RecordSupplyReceipt(ctx, lineID, quantity, by)
}

// MarkLineNotReceived pose le marquage administratif NON_RECEPTIONNE
// ("n'arrivera jamais") sur une ligne. Permis seulement tant que rien n'a
// été reçu sur la ligne; le statut agrégé de la commande est recalculé.
func (s *Service) MarkLineNotReceived(ctx context.Context, lineID string) (*entity.SupplyLine, error) {
	var marked *entity.SupplyLine
	err := s.txRunner.RunSupplyOnly(ctx, func(supplyRepo repository.SupplyRepository, _ repository.PresentationRepository) error {
		line, err := supplyRepo.GetLineForUpdate(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrIntrouvable
		}
		if line.ReceivedQuantity > 0 {
			return domain.ErrTransitionInterdite
		}
		line.Status = entity.LineStatusNonReceptionne
		line.UpdatedAt = time.Now()
		if err := supplyRepo.UpdateLine(line); err != nil {
			return err
		}
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
		marked = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return marked, nil
}

// Delete supprime une commande. Permis seulement tant que le statut agrégé
// est COMMANDE_INITIEE (rien reçu) ou que la commande n'a aucune ligne.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.txRunner.RunSupplyOnly(ctx, func(supplyRepo repository.SupplyRepository, _ repository.PresentationRepository) error {
		sup, err := supplyRepo.GetByID(id)
		if err != nil {
			return err
		}
		if sup == nil {
			return domain.ErrIntrouvable
		}
		if sup.Status != entity.SupplyStatusCommandeInitiee && len(sup.Lines) > 0 {
			return domain.ErrTransitionInterdite
		}
		return supplyRepo.Delete(id)
	})
}
