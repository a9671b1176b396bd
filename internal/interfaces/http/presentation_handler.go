package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/thierrypro75/gosbi-backend/internal/application/catalog"
	"github.com/thierrypro75/gosbi-backend/internal/application/dto"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
)

// PresentationHandler gère les présentations d'un produit (protégé).
type PresentationHandler struct {
	svc *catalog.Service
}

// NewPresentationHandler construit le handler.
func NewPresentationHandler(svc *catalog.Service) *PresentationHandler {
	return &PresentationHandler{svc: svc}
}

// Create godoc
// @Summary      Créer une présentation d'un produit
// @Description  Le stock de départ et le premier prix de vente sont optionnels
// @Tags         presentations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID du produit"
// @Param        body  body  dto.CreatePresentationRequest  true  "Données de la présentation"
// @Success      201   {object}  dto.PresentationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/presentations [post]
func (h *PresentationHandler) Create(c *fiber.Ctx) error {
	productID := c.Params("id")
	var in dto.CreatePresentationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.UnitLabel == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unit_label est requis"})
	}
	pres, err := h.svc.CreatePresentation(c.UserContext(), productID, catalog.PresentationInput{
		UnitLabel:         in.UnitLabel,
		SKU:               in.SKU,
		PurchasePrice:     in.PurchasePrice,
		LowStockThreshold: in.LowStockThreshold,
		InitialQuantity:   in.InitialQuantity,
		InitialPrice:      in.InitialPrice,
		InitialPriceLabel: in.InitialPriceLabel,
	}, GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIntrouvable):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "produit introuvable"})
		case errors.Is(err, domain.ErrEntreeInvalide), errors.Is(err, domain.ErrQuantiteInvalide):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "données de présentation invalides"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toPresentationResponse(pres))
}

// List godoc
// @Summary      Lister les présentations
// @Tags         presentations
// @Security     Bearer
// @Produce      json
// @Param        low_stock  query  bool  false  "Seulement les présentations sous leur seuil"
// @Param        limit      query  int   false  "Limite"   default(20)
// @Param        offset     query  int   false  "Offset"   default(0)
// @Success      200        {array}  dto.PresentationResponse
// @Router       /api/presentations [get]
func (h *PresentationHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	lowStockOnly := c.QueryBool("low_stock", false)
	list, err := h.svc.ListPresentations(c.UserContext(), lowStockOnly, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PresentationResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPresentationResponse(p))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtenir une présentation par ID
// @Tags         presentations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la présentation"
// @Success      200  {object}  dto.PresentationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/presentations/{id} [get]
func (h *PresentationHandler) GetByID(c *fiber.Ctx) error {
	pres, err := h.svc.GetPresentation(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrIntrouvable) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "présentation introuvable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toPresentationResponse(pres))
}

// Update godoc
// @Summary      Modifier une présentation
// @Description  La quantité en main ne se modifie jamais ici : elle dérive du livre des mouvements
// @Tags         presentations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la présentation"
// @Param        body  body  dto.UpdatePresentationRequest  true  "Champs à modifier"
// @Success      200   {object}  dto.PresentationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/presentations/{id} [put]
func (h *PresentationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePresentationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	pres, err := h.svc.UpdatePresentation(c.UserContext(), c.Params("id"), catalog.PresentationUpdateInput{
		UnitLabel:         in.UnitLabel,
		SKU:               in.SKU,
		PurchasePrice:     in.PurchasePrice,
		LowStockThreshold: in.LowStockThreshold,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntrouvable) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "présentation introuvable"})
		}
		if errors.Is(err, domain.ErrEntreeInvalide) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "données invalides"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toPresentationResponse(pres))
}

// Delete godoc
// @Summary      Supprimer une présentation
// @Description  Refusé dès qu'elle porte des mouvements autres que le stock initial
// @Tags         presentations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la présentation"
// @Success      204  "supprimée"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/presentations/{id} [delete]
func (h *PresentationHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeletePresentation(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrIntrouvable) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "présentation introuvable"})
		}
		if errors.Is(err, domain.ErrTransitionInterdite) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_MOVEMENTS", Message: "la présentation porte des mouvements de stock"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMovements godoc
// @Summary      Historique des mouvements d'une présentation
// @Description  Plus récent d'abord, mouvements annulés inclus
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la présentation"
// @Param        limit   query  int     false  "Limite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.MovementResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/movements [get]
func (h *PresentationHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	movements, err := h.svc.ListMovements(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrIntrouvable) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "présentation introuvable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}
