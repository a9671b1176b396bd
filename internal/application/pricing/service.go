package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// Service gère l'ensemble des prix de vente d'une présentation et son
// invariant : toute présentation ayant au moins un prix a exactement un prix
// par défaut. Chaque mutation rétablit l'invariant avant de retourner, en
// une seule transaction (jamais de demote et promote en deux écritures
// visibles séparément).
type Service struct {
	txRunner  TxRunner
	priceRepo repository.SellingPriceRepository // lié au pool, lectures hors transaction
	presRepo  repository.PresentationRepository
}

// NewService construit le gestionnaire de prix.
func NewService(txRunner TxRunner, priceRepo repository.SellingPriceRepository, presRepo repository.PresentationRepository) *Service {
	return &Service{txRunner: txRunner, priceRepo: priceRepo, presRepo: presRepo}
}

// UpdateInput champs modifiables d'un prix. Les pointeurs nil sont ignorés.
type UpdateInput struct {
	Label     *string
	Price     *decimal.Decimal
	IsDefault *bool
}

// List retourne les prix d'une présentation, défaut d'abord puis par libellé.
func (s *Service) List(ctx context.Context, presentationID string) ([]*entity.SellingPrice, error) {
	pres, err := s.presRepo.GetByID(presentationID)
	if err != nil {
		return nil, err
	}
	if pres == nil {
		return nil, domain.ErrIntrouvable
	}
	return s.priceRepo.ListByPresentation(presentationID)
}

// Add crée un prix. Si wantDefault est vrai, tous les prix existants sont
// rétrogradés puis le nouveau est inséré par défaut, dans la même
// transaction. Un premier prix est toujours forcé par défaut, même demandé
// non-défaut : une présentation avec des prix a toujours un défaut.
func (s *Service) Add(ctx context.Context, presentationID, label string, price decimal.Decimal, wantDefault bool) (*entity.SellingPrice, error) {
	if !price.IsPositive() {
		return nil, domain.ErrQuantiteInvalide
	}
	pres, err := s.presRepo.GetByID(presentationID)
	if err != nil {
		return nil, err
	}
	if pres == nil {
		return nil, domain.ErrIntrouvable
	}

	now := time.Now()
	created := &entity.SellingPrice{
		ID:             uuid.New().String(),
		PresentationID: presentationID,
		Label:          label,
		Price:          price,
		IsDefault:      wantDefault,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = s.txRunner.RunPricing(ctx, func(priceRepo repository.SellingPriceRepository) error {
		existing, err := priceRepo.ListByCreation(presentationID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			// Premier prix : forcément le défaut.
			created.IsDefault = true
		} else if wantDefault {
			if err := priceRepo.DemoteAll(presentationID); err != nil {
				return err
			}
		}
		return priceRepo.Create(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update modifie un prix. Passer IsDefault à true applique la règle
// rétrograder-puis-promouvoir; le repasser à false sur le défaut courant est
// interdit (promouvoir un autre prix à la place).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.SellingPrice, error) {
	if in.Price != nil && !in.Price.IsPositive() {
		return nil, domain.ErrQuantiteInvalide
	}
	var updated *entity.SellingPrice
	err := s.txRunner.RunPricing(ctx, func(priceRepo repository.SellingPriceRepository) error {
		price, err := priceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if price == nil {
			return domain.ErrIntrouvable
		}
		if in.IsDefault != nil && !*in.IsDefault && price.IsDefault {
			return domain.ErrPrixDefautInvariant
		}
		if in.Label != nil {
			price.Label = *in.Label
		}
		if in.Price != nil {
			price.Price = *in.Price
		}
		if in.IsDefault != nil && *in.IsDefault && !price.IsDefault {
			if err := priceRepo.DemoteAll(price.PresentationID); err != nil {
				return err
			}
			price.IsDefault = true
		}
		price.UpdatedAt = time.Now()
		if err := priceRepo.Update(price); err != nil {
			return err
		}
		updated = price
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete supprime un prix. Si c'était le défaut et qu'il reste des prix, le
// premier par ordre de libellé est promu dans la même transaction; s'il ne
// reste rien, aucun défaut n'est requis.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.txRunner.RunPricing(ctx, func(priceRepo repository.SellingPriceRepository) error {
		price, err := priceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if price == nil {
			return domain.ErrIntrouvable
		}
		if err := priceRepo.Delete(id); err != nil {
			return err
		}
		if !price.IsDefault {
			return nil
		}
		remaining, err := priceRepo.ListByPresentation(price.PresentationID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		// Règle déterministe : premier par ordre de libellé.
		return priceRepo.SetDefault(remaining[0].ID, true)
	})
}

// Reconcile répare l'invariant sur des données héritées d'écritures non
// atomiques : plusieurs défauts -> seul le premier par ordre de création est
// conservé; aucun défaut avec au moins un prix -> le premier par ordre de
// création est promu. Les mutations normales étant atomiques, cette routine
// ne devrait jamais trouver de violation sur des données produites ici.
func (s *Service) Reconcile(ctx context.Context, presentationID string) error {
	return s.txRunner.RunPricing(ctx, func(priceRepo repository.SellingPriceRepository) error {
		prices, err := priceRepo.ListByCreation(presentationID)
		if err != nil {
			return err
		}
		if len(prices) == 0 {
			return nil
		}
		defaults := 0
		for _, p := range prices {
			if p.IsDefault {
				defaults++
			}
		}
		switch {
		case defaults == 1:
			return nil
		case defaults == 0:
			return priceRepo.SetDefault(prices[0].ID, true)
		default:
			kept := false
			for _, p := range prices {
				if !p.IsDefault {
					continue
				}
				if !kept {
					kept = true
					continue
				}
				if err := priceRepo.SetDefault(p.ID, false); err != nil {
					return err
				}
			}
			return nil
		}
	})
}
