package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/thierrypro75/gosbi-backend/internal/application/dto"
	"github.com/thierrypro75/gosbi-backend/internal/application/stock"
	"github.com/thierrypro75/gosbi-backend/internal/domain"
)

// StockHandler gère les mutations de stock (protégé). Toute mutation passe
// par le coordinateur : jamais d'écriture directe de quantité.
type StockHandler struct {
	coordinator *stock.Coordinator
}

// NewStockHandler construit le handler.
func NewStockHandler(coordinator *stock.Coordinator) *StockHandler {
	return &StockHandler{coordinator: coordinator}
}

// stockError traduit les erreurs du moteur de stock en réponse HTTP.
func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrIntrouvable):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrStockInsuffisant):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuffisant"})
	case errors.Is(err, domain.ErrStockNegatif):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_STOCK", Message: "le stock résultant serait négatif"})
	case errors.Is(err, domain.ErrQuantiteInvalide):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "quantité invalide"})
	case errors.Is(err, domain.ErrTransitionInterdite):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "FORBIDDEN_TRANSITION", Message: "opération interdite dans l'état courant"})
	case errors.Is(err, domain.ErrStockInitialExistant):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INITIAL_EXISTS", Message: "le stock initial est déjà enregistré"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Sale godoc
// @Summary      Enregistrer une vente
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la présentation"
// @Param        body  body  dto.QuantityRequest  true  "Quantité vendue"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/sale [post]
func (h *StockHandler) Sale(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	movement, err := h.coordinator.RecordSale(c.UserContext(), c.Params("id"), in.Quantity, GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// Return godoc
// @Summary      Enregistrer un retour client
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la présentation"
// @Param        body  body  dto.QuantityRequest  true  "Quantité retournée"
// @Success      201   {object}  dto.MovementResponse
// @Router       /api/presentations/{id}/return [post]
func (h *StockHandler) Return(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	movement, err := h.coordinator.RecordReturn(c.UserContext(), c.Params("id"), in.Quantity, GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// Adjustment godoc
// @Summary      Ajustement manuel du stock
// @Description  Delta signé : positif = entrée, négatif = sortie
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la présentation"
// @Param        body  body  dto.AdjustmentRequest  true  "Delta signé et note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/adjustment [post]
func (h *StockHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	movement, err := h.coordinator.RecordAdjustment(c.UserContext(), c.Params("id"), in.Delta, GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// Correction godoc
// @Summary      Corriger un mouvement
// @Description  Ajoute l'écriture de contrepartie (sens opposé) liée au mouvement; un mouvement ne se corrige qu'une fois
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID du mouvement à corriger"
// @Success      201  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/correction [post]
func (h *StockHandler) Correction(c *fiber.Ctx) error {
	movement, err := h.coordinator.RecordCorrection(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}
