package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/thierrypro75/gosbi-backend/internal/application/dto"
	"github.com/thierrypro75/gosbi-backend/internal/application/supply"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
)

// SupplyHandler gère les commandes fournisseur et leurs réceptions (protégé).
type SupplyHandler struct {
	svc *supply.Service
}

// NewSupplyHandler construit le handler.
func NewSupplyHandler(svc *supply.Service) *SupplyHandler {
	return &SupplyHandler{svc: svc}
}

func supplyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrIntrouvable):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrEntreeInvalide), errors.Is(err, domain.ErrQuantiteInvalide):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "données de commande invalides"})
	case errors.Is(err, domain.ErrTransitionInterdite):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "FORBIDDEN_TRANSITION", Message: "opération interdite dans l'état courant"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Créer une commande fournisseur
// @Description  Tout-ou-rien : une seule ligne invalide annule toute la commande
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplyRequest  true  "Description et lignes"
// @Success      201   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *SupplyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "au moins une ligne est requise"})
	}
	lines := make([]supply.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, supply.LineInput{
			PresentationID: l.PresentationID,
			Quantity:       l.Quantity,
			PurchasePrice:  l.PurchasePrice,
			SellingPrice:   l.SellingPrice,
		})
	}
	created, err := h.svc.Create(c.UserContext(), supply.CreateInput{
		Description: in.Description,
		Lines:       lines,
	}, GetUserID(c))
	if err != nil {
		return supplyError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSupplyResponse(created))
}

// List godoc
// @Summary      Lister les commandes fournisseur
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.SupplyResponse
// @Router       /api/supplies [get]
func (h *SupplyHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	supplies, err := h.svc.List(c.UserContext(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SupplyResponse, 0, len(supplies))
	for _, s := range supplies {
		out = append(out, toSupplyResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtenir une commande avec ses lignes
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la commande"
// @Success      200  {object}  dto.SupplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [get]
func (h *SupplyHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return supplyError(c, err)
	}
	return c.JSON(toSupplyResponse(s))
}

// Delete godoc
// @Summary      Supprimer une commande
// @Description  Refusé dès qu'une réception a commencé
// @Tags         supplies
// @Security     Bearer
// @Param        id   path  string  true  "ID de la commande"
// @Success      204  "supprimée"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [delete]
func (h *SupplyHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return supplyError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReceiveLine godoc
// @Summary      Réceptionner une quantité sur une ligne
// @Description  Réception incrémentale : la quantité s'ajoute au reçu cumulé, le stock entre au livre, les statuts se recalculent
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ligne"
// @Param        body  body  dto.ReceiveLineRequest  true  "Quantité reçue maintenant"
// @Success      200   {object}  dto.SupplyLineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supply-lines/{id}/receive [post]
func (h *SupplyHandler) ReceiveLine(c *fiber.Ctx) error {
	var in dto.ReceiveLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	line, err := h.svc.Receive(c.UserContext(), c.Params("id"), in.Quantity, GetUserID(c))
	if err != nil {
		return supplyError(c, err)
	}
	return c.JSON(toSupplyLineResponse(line))
}

// MarkLineNotReceived godoc
// @Summary      Marquer une ligne non réceptionnée
// @Description  Marquage administratif, possible uniquement tant que rien n'a été reçu sur la ligne
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ligne"
// @Success      200  {object}  dto.SupplyLineResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/supply-lines/{id}/not-received [post]
func (h *SupplyHandler) MarkLineNotReceived(c *fiber.Ctx) error {
	line, err := h.svc.MarkLineNotReceived(c.UserContext(), c.Params("id"))
	if err != nil {
		return supplyError(c, err)
	}
	return c.JSON(toSupplyLineResponse(line))
}
