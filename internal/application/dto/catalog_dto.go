package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrée pour créer un produit.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"omitempty,max=100"`
}

// UpdateProductRequest entrée pour modifier un produit.
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ProductResponse sortie d'un produit.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePresentationRequest entrée pour créer une présentation. Le stock de
// départ et le premier prix de vente sont optionnels.
type CreatePresentationRequest struct {
	UnitLabel         string           `json:"unit_label" validate:"required,min=1,max=100"`
	SKU               string           `json:"sku" validate:"omitempty,max=100"`
	PurchasePrice     decimal.Decimal  `json:"purchase_price"`
	LowStockThreshold int              `json:"low_stock_threshold" validate:"min=0"`
	InitialQuantity   int              `json:"initial_quantity" validate:"min=0"`
	InitialPrice      *decimal.Decimal `json:"initial_price,omitempty"`
	InitialPriceLabel string           `json:"initial_price_label,omitempty"`
}

// UpdatePresentationRequest entrée pour modifier une présentation (jamais la
// quantité en main : elle dérive du livre des mouvements).
type UpdatePresentationRequest struct {
	UnitLabel         *string          `json:"unit_label"`
	SKU               *string          `json:"sku"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

// PresentationResponse sortie d'une présentation.
type PresentationResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	UnitLabel         string          `json:"unit_label"`
	SKU               string          `json:"sku,omitempty"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	QuantityOnHand    int             `json:"quantity_on_hand"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
