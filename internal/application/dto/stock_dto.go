package dto

import "time"

// QuantityRequest corps des mutations simples de stock (vente, retour).
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// AdjustmentRequest corps d'un ajustement manuel : delta signé.
type AdjustmentRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Note  string `json:"note,omitempty"`
}

// MovementResponse sortie d'une écriture du livre de stock.
type MovementResponse struct {
	ID             string    `json:"id"`
	PresentationID string    `json:"presentation_id"`
	ProductID      string    `json:"product_id"`
	QuantityIn     int       `json:"quantity_in,omitempty"`
	QuantityOut    int       `json:"quantity_out,omitempty"`
	StockBefore    int       `json:"stock_before"`
	StockAfter     int       `json:"stock_after"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	Label          string    `json:"label,omitempty"`
	CorrectionOfID string    `json:"correction_of_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by,omitempty"`
}
