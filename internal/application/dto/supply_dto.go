package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyLineRequest une ligne à commander.
type SupplyLineRequest struct {
	PresentationID string          `json:"presentation_id" validate:"required,uuid"`
	Quantity       int             `json:"quantity" validate:"required,gt=0"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
}

// CreateSupplyRequest entrée pour créer une commande fournisseur.
type CreateSupplyRequest struct {
	Description string              `json:"description" validate:"omitempty,max=500"`
	Lines       []SupplyLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveLineRequest quantité reçue maintenant sur une ligne (cumulative).
type ReceiveLineRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// SupplyLineResponse sortie d'une ligne de commande.
type SupplyLineResponse struct {
	ID               string          `json:"id"`
	SupplyID         string          `json:"supply_id"`
	PresentationID   string          `json:"presentation_id"`
	ProductID        string          `json:"product_id"`
	OrderedQuantity  int             `json:"ordered_quantity"`
	ReceivedQuantity int             `json:"received_quantity"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	Status           string          `json:"status"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SupplyResponse sortie d'une commande fournisseur.
type SupplyResponse struct {
	ID          string               `json:"id"`
	Description string               `json:"description"`
	Status      string               `json:"status"`
	Lines       []SupplyLineResponse `json:"lines"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
