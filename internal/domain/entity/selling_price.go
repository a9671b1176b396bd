package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellingPrice est un des prix de vente simultanés d'une présentation
// (détail, gros, promotion...). Invariant : pour toute présentation ayant au
// moins un prix, exactement un prix porte IsDefault = true.
type SellingPrice struct {
	ID             string
	PresentationID string
	Label          string // "Détail", "Gros", "Promo"...
	Price          decimal.Decimal
	IsDefault      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
