package http

import (
	"github.com/thierrypro75/gosbi-backend/internal/application/dto"
	"github.com/thierrypro75/gosbi-backend/internal/domain/entity"
)

// Conversions entités -> DTO partagées par les handlers.

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPresentationResponse(p *entity.Presentation) dto.PresentationResponse {
	return dto.PresentationResponse{
		ID:                p.ID,
		ProductID:         p.ProductID,
		UnitLabel:         p.UnitLabel,
		SKU:               p.SKU,
		PurchasePrice:     p.PurchasePrice,
		QuantityOnHand:    p.QuantityOnHand,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		PresentationID: m.PresentationID,
		ProductID:      m.ProductID,
		QuantityIn:     m.QuantityIn,
		QuantityOut:    m.QuantityOut,
		StockBefore:    m.StockBefore,
		StockAfter:     m.StockAfter,
		Reason:         m.Reason,
		Status:         m.Status,
		Label:          m.Label,
		CorrectionOfID: m.CorrectionOfID,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

func toPriceResponse(p *entity.SellingPrice) dto.PriceResponse {
	return dto.PriceResponse{
		ID:             p.ID,
		PresentationID: p.PresentationID,
		Label:          p.Label,
		Price:          p.Price,
		IsDefault:      p.IsDefault,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toSupplyLineResponse(l *entity.SupplyLine) dto.SupplyLineResponse {
	return dto.SupplyLineResponse{
		ID:               l.ID,
		SupplyID:         l.SupplyID,
		PresentationID:   l.PresentationID,
		ProductID:        l.ProductID,
		OrderedQuantity:  l.OrderedQuantity,
		ReceivedQuantity: l.ReceivedQuantity,
		PurchasePrice:    l.PurchasePrice,
		SellingPrice:     l.SellingPrice,
		Status:           l.Status,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toSupplyResponse(s *entity.Supply) dto.SupplyResponse {
	out := dto.SupplyResponse{
		ID:          s.ID,
		Description: s.Description,
		Status:      s.Status,
		Lines:       make([]dto.SupplyLineResponse, 0, len(s.Lines)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, toSupplyLineResponse(l))
	}
	return out
}
