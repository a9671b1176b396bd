package domain

import "errors"

// Erreurs de domaine (sans dépendances externes). Les handlers HTTP les
// traduisent en codes de statut; la couche métier ne les réessaie jamais.
var (
	ErrIntrouvable          = errors.New("ressource introuvable")
	ErrUserIntrouvable      = errors.New("utilisateur introuvable")
	ErrEmailDejaUtilise     = errors.New("email déjà enregistré")
	ErrEntreeInvalide       = errors.New("entrée invalide")
	ErrDoublon              = errors.New("ressource dupliquée")
	ErrNonAutorise          = errors.New("non autorisé")
	ErrAccesRefuse          = errors.New("accès refusé")
	ErrQuantiteInvalide     = errors.New("quantité invalide")
	ErrStockNegatif         = errors.New("le mouvement rendrait le stock négatif")
	ErrStockInsuffisant     = errors.New("stock insuffisant")
	ErrPrixDefautInvariant  = errors.New("la présentation doit avoir exactement un prix par défaut")
	ErrTransitionInterdite  = errors.New("transition d'état interdite")
	ErrStockInitialExistant = errors.New("le stock initial a déjà été enregistré")
)
