package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentation représente une unité vendable d'un produit (conditionnement :
// boîte, plaquette, unité...). QuantityOnHand est un cache dérivé du livre
// des mouvements — seul le moteur de stock a le droit de l'écrire.
type Presentation struct {
	ID                string
	ProductID         string
	UnitLabel         string // "boîte de 30", "plaquette", "unité"...
	SKU               string // code externe optionnel
	PurchasePrice     decimal.Decimal
	QuantityOnHand    int
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indique si la quantité en main est au niveau (ou en dessous)
// du seuil d'alerte.
func (p *Presentation) IsLowStock() bool {
	return p.QuantityOnHand <= p.LowStockThreshold
}
