package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-api/internal/application/dto"
	"github.com/jhoicas/Inventario-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-api/internal/domain/entity"
)

// LocationHandler maneja las peticiones HTTP de ubicaciones.
type LocationHandler struct {
	uc *usecase.LocationUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

func toLocationDTO(l *entity.Location) dto.LocationDTO {
	return dto.LocationDTO{ID: l.ID, Name: l.Name, IsDefault: l.IsDefault, Active: l.Active}
}

// Create crea una ubicación. La primera de la empresa queda como por defecto.
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.Create(c.Context(), GetCompanyID(c), usecase.CreateLocationInput{Name: in.Name, IsDefault: in.IsDefault})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLocationDTO(location))
}

// List ubicaciones de la empresa.
func (h *LocationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LocationDTO, 0, len(list))
	for _, l := range list {
		out = append(out, toLocationDTO(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "locations": out})
}

// Deactivate desactiva una ubicación; la por defecto no puede desactivarse.
func (h *LocationHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete elimina una ubicación; la por defecto no puede eliminarse.
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
