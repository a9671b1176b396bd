package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/thierrypro75/gosbi-backend/internal/application/dto"
	"github.com/thierrypro75/gosbi-backend/internal/application/pricing"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
)

// PricingHandler gère les prix de vente d'une présentation (protégé).
type PricingHandler struct {
	svc *pricing.Service
}

// NewPricingHandler construit le handler.
func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{svc: svc}
}

func pricingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrIntrouvable):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrQuantiteInvalide), errors.Is(err, domain.ErrEntreeInvalide):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "prix invalide"})
	case errors.Is(err, domain.ErrPrixDefautInvariant):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DEFAULT_PRICE", Message: "impossible de rétrograder le prix par défaut : promouvoir un autre prix à la place"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// List godoc
// @Summary      Lister les prix d'une présentation
// @Description  Le prix par défaut en premier, puis par libellé
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la présentation"
// @Success      200  {array}  dto.PriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/prices [get]
func (h *PricingHandler) List(c *fiber.Ctx) error {
	prices, err := h.svc.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return pricingError(c, err)
	}
	out := make([]dto.PriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, toPriceResponse(p))
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Ajouter un prix de vente
// @Description  Le premier prix d'une présentation devient le prix par défaut quoi qu'il arrive
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la présentation"
// @Param        body  body  dto.CreatePriceRequest  true  "Libellé, montant, défaut"
// @Success      201   {object}  dto.PriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/prices [post]
func (h *PricingHandler) Add(c *fiber.Ctx) error {
	var in dto.CreatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.Label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "label est requis"})
	}
	price, err := h.svc.Add(c.UserContext(), c.Params("id"), in.Label, in.Price, in.IsDefault)
	if err != nil {
		return pricingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPriceResponse(price))
}

// Update godoc
// @Summary      Modifier un prix de vente
// @Description  Promouvoir un prix rétrograde l'ancien défaut dans la même transaction
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID du prix"
// @Param        body  body  dto.UpdatePriceRequest  true  "Champs à modifier"
// @Success      200   {object}  dto.PriceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/prices/{id} [put]
func (h *PricingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	price, err := h.svc.Update(c.UserContext(), c.Params("id"), pricing.UpdateInput{
		Label:     in.Label,
		Price:     in.Price,
		IsDefault: in.IsDefault,
	})
	if err != nil {
		return pricingError(c, err)
	}
	return c.JSON(toPriceResponse(price))
}

// Delete godoc
// @Summary      Supprimer un prix de vente
// @Description  Si le prix par défaut est supprimé, un autre prix est promu automatiquement
// @Tags         prices
// @Security     Bearer
// @Param        id   path  string  true  "ID du prix"
// @Success      204  "supprimé"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prices/{id} [delete]
func (h *PricingHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return pricingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Réparer l'invariant du prix par défaut
// @Description  Pour les données historiques : promeut ou rétrograde pour revenir à exactement un défaut
// @Tags         prices
// @Security     Bearer
// @Param        id   path  string  true  "ID de la présentation"
// @Success      204  "invariant rétabli"
// @Router       /api/presentations/{id}/prices/reconcile [post]
func (h *PricingHandler) Reconcile(c *fiber.Ctx) error {
	if err := h.svc.Reconcile(c.UserContext(), c.Params("id")); err != nil {
		return pricingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
