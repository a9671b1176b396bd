package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts agrégés d'un approvisionnement (commande fournisseur).
// COMMANDE_INITIEE est l'état de création; il n'est jamais ré-atteint dès
// qu'une ligne a reçu de la quantité.
const (
	SupplyStatusCommandeInitiee          = "COMMANDE_INITIEE"
	SupplyStatusReceptionne              = "RECEPTIONNE"
	SupplyStatusPartiellementReceptionne = "PARTIELLEMENT_RECEPTIONNE"
	SupplyStatusNonReceptionne           = "NON_RECEPTIONNE"
)

// Statuts d'une ligne d'approvisionnement.
const (
	LineStatusEnAttente                = "EN_ATTENTE"
	LineStatusReceptionne              = "RECEPTIONNE"
	LineStatusPartiellementReceptionne = "PARTIELLEMENT_RECEPTIONNE"
	LineStatusNonReceptionne           = "NON_RECEPTIONNE"
)

// Supply est une commande fournisseur. Les quantités commandées sont figées
// à la création; seuls les reçus, les prix négociés et les statuts évoluent.
type Supply struct {
	ID          string
	Description string
	Status      string
	Lines       []*SupplyLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// SupplyLine est une ligne de commande, réceptionnée de façon incrémentale.
// 0 <= ReceivedQuantity <= OrderedQuantity, et ReceivedQuantity ne décroît
// jamais.
type SupplyLine struct {
	ID               string
	SupplyID         string
	PresentationID   string
	ProductID        string
	OrderedQuantity  int
	ReceivedQuantity int
	PurchasePrice    decimal.Decimal // prix d'achat négocié
	SellingPrice     decimal.Decimal // prix de vente négocié (optionnel, zéro = absent)
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RemainingQuantity retourne la quantité restant à recevoir.
func (l *SupplyLine) RemainingQuantity() int {
	return l.OrderedQuantity - l.ReceivedQuantity
}
