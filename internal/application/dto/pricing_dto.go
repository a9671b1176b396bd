package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePriceRequest entrée pour créer un prix de vente.
type CreatePriceRequest struct {
	Label     string          `json:"label" validate:"required,min=1,max=100"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	IsDefault bool            `json:"is_default"`
}

// UpdatePriceRequest entrée pour modifier un prix. Les champs absents sont
// ignorés.
type UpdatePriceRequest struct {
	Label     *string          `json:"label"`
	Price     *decimal.Decimal `json:"price"`
	IsDefault *bool            `json:"is_default"`
}

// PriceResponse sortie d'un prix de vente.
type PriceResponse struct {
	ID             string          `json:"id"`
	PresentationID string          `json:"presentation_id"`
	Label          string          `json:"label"`
	Price          decimal.Decimal `json:"price"`
	IsDefault      bool            `json:"is_default"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
