package alert

import (
	"context"
	"time"

	"github.com/thierrypro75/gosbi-backend/pkg/logger"
)

// LowStockEvent décrit une présentation passée au niveau (ou en dessous) de
// son seuil d'alerte après une mutation de stock.
type LowStockEvent struct {
	PresentationID string
	ProductID      string
	UnitLabel      string
	SKU            string
	Quantity       int
	Threshold      int
	At             time.Time
}

// Notifier est le port de notification sortante. La couche d'alerte réelle
// (email, push) est hors du périmètre du cœur; elle consomme ce contrat.
type Notifier interface {
	LowStock(ctx context.Context, ev LowStockEvent)
}

// LogNotifier émet les alertes de stock bas dans le journal structuré.
// Implémentation livrée par défaut; remplaçable par un vrai canal d'envoi.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construit le notifieur journal.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// LowStock journalise l'événement en niveau warn.
func (n *LogNotifier) LowStock(_ context.Context, ev LowStockEvent) {
	n.log.Warn().
		Str("presentation_id", ev.PresentationID).
		Str("product_id", ev.ProductID).
		Str("unit_label", ev.UnitLabel).
		Str("sku", ev.SKU).
		Int("quantity", ev.Quantity).
		Int("threshold", ev.Threshold).
		Msg("stock bas")
}
