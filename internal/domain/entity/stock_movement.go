package entity

import "time"

// Motifs de mouvement de stock.
const (
	MovementReasonINITIAL    = "INITIAL"    // stock de départ, à la création de la présentation
	MovementReasonADJUSTMENT = "ADJUSTMENT" // ajustement manuel (inventaire physique)
	MovementReasonSALE       = "SALE"       // vente
	MovementReasonRETURN     = "RETURN"     // retour client
	MovementReasonCORRECTION = "CORRECTION" // contrepartie inversant un autre mouvement
	MovementReasonSUPPLY     = "SUPPLY"     // réception d'approvisionnement
)

// Statuts d'un mouvement. ACTIVE -> CANCELLED est la seule transition permise;
// un mouvement n'est jamais supprimé physiquement.
const (
	MovementStatusACTIVE    = "ACTIVE"
	MovementStatusCANCELLED = "CANCELLED"
)

// StockMovement est une écriture immuable du livre de stock. Exactement un
// des deux champs QuantityIn/QuantityOut est strictement positif, et
// StockAfter = StockBefore + QuantityIn - QuantityOut.
type StockMovement struct {
	ID             string
	PresentationID string
	ProductID      string
	QuantityIn     int
	QuantityOut    int
	StockBefore    int
	StockAfter     int
	Reason         string
	Status         string
	Label          string // référence libre : n° de vente, de commande, note d'ajustement
	CorrectionOfID string // sur une écriture CORRECTION : ID du mouvement inversé
	CreatedAt      time.Time
	CreatedBy      string // UserID
}

// Delta retourne la variation signée portée par le mouvement.
func (m *StockMovement) Delta() int {
	return m.QuantityIn - m.QuantityOut
}

// IsActive indique si le mouvement compte encore dans le stock dérivé.
func (m *StockMovement) IsActive() bool {
	return m.Status == MovementStatusACTIVE
}
