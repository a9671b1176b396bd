package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// Service porte le CRUD du catalogue : produits et présentations. La
// création d'une présentation peut enregistrer son stock de départ (via le
// coordinateur de mutations) et son premier prix de vente (via le
// gestionnaire de prix).
type Service struct {
	productRepo repository.ProductRepository
	presRepo    repository.PresentationRepository
	movRepo     repository.StockMovementRepository
	coordinator *stock.Coordinator
	pricing     *pricing.Service
}

// NewService construit le service catalogue.
func NewService(
	productRepo repository.ProductRepository,
	presRepo repository.PresentationRepository,
	movRepo repository.StockMovementRepository,
	coordinator *stock.Coordinator,
	pricingSvc *pricing.Service,
) *Service {
	return &Service{
		productRepo: productRepo,
		presRepo:    presRepo,
		movRepo:     movRepo,
		coordinator: coordinator,
		pricing:     pricingSvc,
	}
}

// ProductInput champs d'un produit.
type ProductInput struct {
	Name        string
	Description string
	Category    string
}

// CreateProduct crée un produit du catalogue.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.Name == "" {
		return nil, domain.ErrEntreeInvalide
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retourne un produit par ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrIntrouvable
	}
	return product, nil
}

// ListProducts retourne les produits paginés.
func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return s.productRepo.List(limit, offset)
}

// UpdateProduct modifie un produit.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrIntrouvable
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	product.Description = in.Description
	product.Category = in.Category
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct supprime un produit. Refusé s'il a encore des présentations.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrIntrouvable
	}
	presentations, err := s.presRepo.ListByProduct(id)
	if err != nil {
		return err
	}
	if len(presentations) > 0 {
		return domain.ErrTransitionInterdite
	}
	return s.productRepo.Delete(id)
}

// PresentationInput champs de création d'une présentation. InitialQuantity
// et InitialPrice sont optionnels : s'ils sont fournis, le stock de départ
// et le premier prix (forcé par défaut) sont enregistrés dans la foulée.
type PresentationInput struct {
	UnitLabel         string
	SKU               string
	PurchasePrice     decimal.Decimal
	LowStockThreshold int
	InitialQuantity   int
	InitialPrice      *decimal.Decimal
	InitialPriceLabel string
}

// CreatePresentation crée une présentation d'un produit.
func (s *Service) CreatePresentation(ctx context.Context, productID string, in PresentationInput, by string) (*entity.Presentation, error) {
	if in.UnitLabel == "" {
		return nil, domain.ErrEntreeInvalide
	}
	if in.PurchasePrice.IsNegative() || in.LowStockThreshold < 0 || in.InitialQuantity < 0 {
		return nil, domain.ErrEntreeInvalide
	}
	// Validé avant toute écriture : le stock de départ et le premier prix
	// s'enregistrent après la création de la ligne, un prix invalide ne doit
	// pas laisser une présentation à moitié créée.
	if in.InitialPrice != nil && !in.InitialPrice.IsPositive() {
		return nil, domain.ErrEntreeInvalide
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrIntrouvable
	}
	now := time.Now()
	pres := &entity.Presentation{
		ID:                uuid.New().String(),
		ProductID:         productID,
		UnitLabel:         in.UnitLabel,
		SKU:               in.SKU,
		PurchasePrice:     in.PurchasePrice,
		QuantityOnHand:    0,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.presRepo.Create(pres); err != nil {
		return nil, err
	}
	if in.InitialQuantity > 0 {
		mov, err := s.coordinator.RecordInitialStock(ctx, pres.ID, in.InitialQuantity, by)
		if err != nil {
			return nil, err
		}
		pres.QuantityOnHand = mov.StockAfter
	}
	if in.InitialPrice != nil {
		label := in.InitialPriceLabel
		if label == "" {
			label = "Standard"
		}
		if _, err := s.pricing.Add(ctx, pres.ID, label, *in.InitialPrice, true); err != nil {
			return nil, err
		}
	}
	return pres, nil
}

// GetPresentation retourne une présentation par ID.
func (s *Service) GetPresentation(ctx context.Context, id string) (*entity.Presentation, error) {
	pres, err := s.presRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pres == nil {
		return nil, domain.ErrIntrouvable
	}
	return pres, nil
}

// ListPresentations retourne les présentations, optionnellement limitées à
// celles sous leur seuil d'alerte.
func (s *Service) ListPresentations(ctx context.Context, lowStockOnly bool, limit, offset int) ([]*entity.Presentation, error) {
	return s.presRepo.List(lowStockOnly, limit, offset)
}

// PresentationUpdateInput champs modifiables d'une présentation. La quantité
// en main n'en fait pas partie : elle n'est écrite que par le moteur de
// stock.
type PresentationUpdateInput struct {
	UnitLabel         *string
	SKU               *string
	PurchasePrice     *decimal.Decimal
	LowStockThreshold *int
}

// UpdatePresentation modifie les champs mutables d'une présentation.
func (s *Service) UpdatePresentation(ctx context.Context, id string, in PresentationUpdateInput) (*entity.Presentation, error) {
	pres, err := s.presRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pres == nil {
		return nil, domain.ErrIntrouvable
	}
	if in.UnitLabel != nil {
		if *in.UnitLabel == "" {
			return nil, domain.ErrEntreeInvalide
		}
		pres.UnitLabel = *in.UnitLabel
	}
	if in.SKU != nil {
		pres.SKU = *in.SKU
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrEntreeInvalide
		}
		pres.PurchasePrice = *in.PurchasePrice
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrEntreeInvalide
		}
		pres.LowStockThreshold = *in.LowStockThreshold
	}
	pres.UpdatedAt = time.Now()
	if err := s.presRepo.Update(pres); err != nil {
		return nil, err
	}
	return pres, nil
}

// DeletePresentation supprime une présentation. Interdit dès qu'un mouvement
// autre que INITIAL la référence (le livre est balayé avant suppression).
func (s *Service) DeletePresentation(ctx context.Context, id string) error {
	pres, err := s.presRepo.GetByID(id)
	if err != nil {
		return err
	}
	if pres == nil {
		return domain.ErrIntrouvable
	}
	count, err := s.movRepo.CountByPresentation(id, true)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrTransitionInterdite
	}
	return s.presRepo.Delete(id)
}

// ListMovements retourne l'historique des mouvements d'une présentation,
// les plus récents d'abord.
func (s *Service) ListMovements(ctx context.Context, presentationID string, limit, offset int) ([]*entity.StockMovement, error) {
	pres, err := s.presRepo.GetByID(presentationID)
	if err != nil {
		return nil, err
	}
	if pres == nil {
		return nil, domain.ErrIntrouvable
	}
	return s.movRepo.ListByPresentation(presentationID, limit, offset)
}
