package supply

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// LineStatus dérive le statut d'une ligne de ses seules quantités
// (fonction pure, service de domaine) :
//
//	reçu == 0                -> EN_ATTENTE
//	0 < reçu < commandé      -> PARTIELLEMENT_RECEPTIONNE
//	reçu >= commandé         -> RECEPTIONNE
//
// Le marquage administratif NON_RECEPTIONNE ("n'arrivera jamais") n'est pas
// dérivé des quantités; il est posé explicitement et seulement tant que
// rien n'a été reçu.
func LineStatus(ordered, received int) string {
	switch {
	case received <= 0:
		return entity.LineStatusEnAttente
	case received < ordered:
		return entity.LineStatusPartiellementReceptionne
	default:
		return entity.LineStatusReceptionne
	}
}

// OrderStatus dérive le statut agrégé d'une commande de ses lignes :
// RECEPTIONNE si toutes les lignes le sont; NON_RECEPTIONNE si aucune ligne
// n'a rien reçu et qu'au moins une est marquée NON_RECEPTIONNE;
// COMMANDE_INITIEE tant que rien n'a été reçu ni marqué;
// PARTIELLEMENT_RECEPTIONNE sinon.
func OrderStatus(lines []*entity.SupplyLine) string {
	if len(lines) == 0 {
		return entity.SupplyStatusCommandeInitiee
	}
	allReceived := true
	anyReceived := false
	anyMarkedNot := false
	for _, l := range lines {
		if l.Status != entity.LineStatusReceptionne {
			allReceived = false
		}
		if l.ReceivedQuantity > 0 {
			anyReceived = true
		}
		if l.Status == entity.LineStatusNonReceptionne {
			anyMarkedNot = true
		}
	}
	switch {
	case allReceived:
		return entity.SupplyStatusReceptionne
	case !anyReceived && anyMarkedNot:
		return entity.SupplyStatusNonReceptionne
	case !anyReceived:
		return entity.SupplyStatusCommandeInitiee
	default:
		return entity.SupplyStatusPartiellementReceptionne
	}
}
