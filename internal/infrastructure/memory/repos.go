package memory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
	"github.com/thierrypro75/gosbi-backend/internal/domain/repository"
)

// Vérification statique des contrats de persistance.
var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.PresentationRepository  = (*PresentationRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.SellingPriceRepository  = (*SellingPriceRepo)(nil)
	_ repository.SupplyRepository        = (*SupplyRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
)

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── Produits ────────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for id := range r.s.products {
		p := r.s.products[id]
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrIntrouvable
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

// ── Présentations ───────────────────────────────────────────────────────────

type PresentationRepo struct{ s *Store }

func (r *PresentationRepo) Create(p *entity.Presentation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.s.presentations[p.ID] = *p
	return nil
}

func (r *PresentationRepo) GetByID(id string) (*entity.Presentation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.presentations[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate équivaut à GetByID : la sérialisation vient du mutex.
func (r *PresentationRepo) GetForUpdate(id string) (*entity.Presentation, error) {
	return r.GetByID(id)
}

func (r *PresentationRepo) ListByProduct(productID string) ([]*entity.Presentation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Presentation
	for id := range r.s.presentations {
		p := r.s.presentations[id]
		if p.ProductID == productID {
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UnitLabel < list[j].UnitLabel })
	return list, nil
}

func (r *PresentationRepo) List(lowStockOnly bool, limit, offset int) ([]*entity.Presentation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Presentation
	for id := range r.s.presentations {
		p := r.s.presentations[id]
		if lowStockOnly && !p.IsLowStock() {
			continue
		}
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UnitLabel < list[j].UnitLabel })
	return paginate(list, limit, offset), nil
}

func (r *PresentationRepo) Update(p *entity.Presentation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.presentations[p.ID]
	if !ok {
		return domain.ErrIntrouvable
	}
	// La quantité en main ne passe jamais par Update.
	p.QuantityOnHand = cur.QuantityOnHand
	r.s.presentations[p.ID] = *p
	return nil
}

func (r *PresentationRepo) UpdateQuantity(id string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.presentations[id]
	if !ok {
		return domain.ErrIntrouvable
	}
	p.QuantityOnHand = quantity
	r.s.presentations[id] = p
	return nil
}

func (r *PresentationRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.presentations, id)
	return nil
}

// ── Mouvements de stock ─────────────────────────────────────────────────────

type StockMovementRepo struct{ s *Store }

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			m := r.s.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *StockMovementRepo) GetLatestActive(presentationID string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.PresentationID == presentationID && m.Status == entity.MovementStatusACTIVE {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *StockMovementRepo) ListByPresentation(presentationID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].PresentationID == presentationID {
			m := r.s.movements[i]
			list = append(list, &m)
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *StockMovementRepo) CountByPresentation(presentationID string, excludeInitial bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.PresentationID != presentationID {
			continue
		}
		if excludeInitial && m.Reason == entity.MovementReasonINITIAL {
			continue
		}
		count++
	}
	return count, nil
}

func (r *StockMovementRepo) GetCorrectionOf(movementID string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.movements {
		if r.s.movements[i].CorrectionOfID == movementID {
			m := r.s.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *StockMovementRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			r.s.movements[i].Status = status
			return nil
		}
	}
	return domain.ErrIntrouvable
}

// ── Prix de vente ───────────────────────────────────────────────────────────

type SellingPriceRepo struct{ s *Store }

func (r *SellingPriceRepo) Create(price *entity.SellingPrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if price.ID == "" {
		price.ID = uuid.New().String()
	}
	r.s.prices = append(r.s.prices, *price)
	return nil
}

func (r *SellingPriceRepo) GetByID(id string) (*entity.SellingPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.prices {
		if r.s.prices[i].ID == id {
			p := r.s.prices[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *SellingPriceRepo) ListByPresentation(presentationID string) ([]*entity.SellingPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.collectLocked(presentationID)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsDefault != list[j].IsDefault {
			return list[i].IsDefault
		}
		return list[i].Label < list[j].Label
	})
	return list, nil
}

func (r *SellingPriceRepo) ListByCreation(presentationID string) ([]*entity.SellingPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collectLocked(presentationID), nil
}

func (r *SellingPriceRepo) collectLocked(presentationID string) []*entity.SellingPrice {
	var list []*entity.SellingPrice
	for i := range r.s.prices {
		if r.s.prices[i].PresentationID == presentationID {
			p := r.s.prices[i]
			list = append(list, &p)
		}
	}
	return list
}

func (r *SellingPriceRepo) Update(price *entity.SellingPrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.prices {
		if r.s.prices[i].ID == price.ID {
			r.s.prices[i] = *price
			return nil
		}
	}
	return domain.ErrIntrouvable
}

func (r *SellingPriceRepo) DemoteAll(presentationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.prices {
		if r.s.prices[i].PresentationID == presentationID {
			r.s.prices[i].IsDefault = false
		}
	}
	return nil
}

func (r *SellingPriceRepo) SetDefault(id string, isDefault bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.prices {
		if r.s.prices[i].ID == id {
			r.s.prices[i].IsDefault = isDefault
			return nil
		}
	}
	return domain.ErrIntrouvable
}

func (r *SellingPriceRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.prices {
		if r.s.prices[i].ID == id {
			r.s.prices = append(r.s.prices[:i], r.s.prices[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Approvisionnements ──────────────────────────────────────────────────────

type SupplyRepo struct{ s *Store }

func (r *SupplyRepo) Create(supply *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if supply.ID == "" {
		supply.ID = uuid.New().String()
	}
	head := *supply
	head.Lines = nil
	r.s.supplies[supply.ID] = head
	for _, line := range supply.Lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.SupplyID = supply.ID
		r.s.lines = append(r.s.lines, *line)
	}
	return nil
}

func (r *SupplyRepo) GetByID(id string) (*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	head, ok := r.s.supplies[id]
	if !ok {
		return nil, nil
	}
	head.Lines = r.linesLocked(id)
	return &head, nil
}

func (r *SupplyRepo) linesLocked(supplyID string) []*entity.SupplyLine {
	var lines []*entity.SupplyLine
	for i := range r.s.lines {
		if r.s.lines[i].SupplyID == supplyID {
			l := r.s.lines[i]
			lines = append(lines, &l)
		}
	}
	return lines
}

func (r *SupplyRepo) List(limit, offset int) ([]*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Supply
	for id := range r.s.supplies {
		head := r.s.supplies[id]
		head.Lines = r.linesLocked(id)
		list = append(list, &head)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *SupplyRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	head, ok := r.s.supplies[id]
	if !ok {
		return domain.ErrIntrouvable
	}
	head.Status = status
	r.s.supplies[id] = head
	return nil
}

func (r *SupplyRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.supplies, id)
	kept := r.s.lines[:0]
	for i := range r.s.lines {
		if r.s.lines[i].SupplyID != id {
			kept = append(kept, r.s.lines[i])
		}
	}
	r.s.lines = kept
	return nil
}

func (r *SupplyRepo) GetLineByID(id string) (*entity.SupplyLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.lines {
		if r.s.lines[i].ID == id {
			l := r.s.lines[i]
			return &l, nil
		}
	}
	return nil, nil
}

// GetLineForUpdate équivaut à GetLineByID : la sérialisation vient du mutex.
func (r *SupplyRepo) GetLineForUpdate(id string) (*entity.SupplyLine, error) {
	return r.GetLineByID(id)
}

func (r *SupplyRepo) UpdateLine(line *entity.SupplyLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.lines {
		if r.s.lines[i].ID == line.ID {
			r.s.lines[i] = *line
			return nil
		}
	}
	return domain.ErrIntrouvable
}

// ── Utilisateurs ────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.users {
		if r.s.users[id].Email == user.Email {
			return domain.ErrEmailDejaUtilise
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.users {
		if r.s.users[id].Email == email {
			u := r.s.users[id]
			return &u, nil
		}
	}
	return nil, nil
}
