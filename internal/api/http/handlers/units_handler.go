package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/service"
)

// UnitsHandler exposes the resource directory.
type UnitsHandler struct {
	service *service.ResourceService
}

// NewUnitsHandler constructs handler.
func NewUnitsHandler(resourceService *service.ResourceService) *UnitsHandler {
	return &UnitsHandler{service: resourceService}
}

// ListAvailable GET /units/available.
func (h *UnitsHandler) ListAvailable(c *fiber.Ctx) error {
	units, err := h.service.ListAvailableUnits(c.UserContext(), c.Query("unit_type"))
	if err != nil {
		return err
	}
	items := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		items = append(items, unitResponse(units[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /units/:id.
func (h *UnitsHandler) Get(c *fiber.Ctx) error {
	unit, err := h.service.GetUnit(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": unitResponse(*unit)})
}

func unitResponse(unit domain.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:            unit.ID,
		Name:          unit.Name,
		UnitType:      unit.UnitType,
		Capacity:      unit.Capacity,
		CurrentCount:  unit.CurrentCount,
		CurrentStatus: unit.CurrentStatus,
	}
}
