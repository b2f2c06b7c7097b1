package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/service"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// DispatchHandler exposes the dispatch command and query endpoints.
type DispatchHandler struct {
	service *service.DispatchService
}

// NewDispatchHandler constructs handler.
func NewDispatchHandler(dispatchService *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{service: dispatchService}
}

// Review POST /dispatches/:id/review.
func (h *DispatchHandler) Review(c *fiber.Ctx) error {
	operator, ok := auth.OperatorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.Review(c.UserContext(), operator.ID, c.Params("id"), req.Action, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dispatchSummary(record)})
}

// Assign POST /dispatches/:id/assign.
func (h *DispatchHandler) Assign(c *fiber.Ctx) error {
	operator, ok := auth.OperatorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.AssignUnit(c.UserContext(), operator.ID, c.Params("id"), req.UnitID, req.VehicleIDs, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dispatchSummary(record)})
}

// UpdateStatus POST /dispatches/:id/status.
func (h *DispatchHandler) UpdateStatus(c *fiber.Ctx) error {
	operator, ok := auth.OperatorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.AdvanceStatus(c.UserContext(), operator.ID, c.Params("id"), domain.DispatchStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dispatchSummary(record)})
}

// Notify POST /dispatches/:id/notify.
func (h *DispatchHandler) Notify(c *fiber.Ctx) error {
	operator, ok := auth.OperatorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.NotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	note, err := h.service.SendNotification(c.UserContext(), operator.ID, c.Params("id"), req.NotificationType, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": noteResponse(*note)})
}

// Get GET /dispatches/:id.
func (h *DispatchHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.GetDispatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dispatchDetail(detail)})
}

// List GET /dispatches.
func (h *DispatchHandler) List(c *fiber.Ctx) error {
	filter := service.ListFilter{
		Status:   c.Query("status"),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 20),
	}
	records, err := h.service.ListDispatches(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.DispatchSummary, 0, len(records))
	for i := range records {
		items = append(items, dispatchSummary(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func dispatchSummary(record *domain.DispatchRecord) dto.DispatchSummary {
	return dto.DispatchSummary{
		ID:              record.ID,
		IncidentID:      record.IncidentID,
		Status:          record.Status,
		UnitID:          record.UnitID,
		VehicleIDs:      record.VehicleIDs,
		DispatchedBy:    record.DispatchedBy,
		DispatchedAt:    record.DispatchedAt,
		StatusUpdatedAt: record.StatusUpdatedAt,
		CreatedAt:       record.CreatedAt,
	}
}

func dispatchDetail(detail *service.DispatchDetail) dto.DispatchDetailResponse {
	noteItems := make([]dto.NoteResponse, 0, len(detail.Notes))
	for _, note := range detail.Notes {
		noteItems = append(noteItems, noteResponse(note))
	}
	vehicleItems := make([]dto.VehicleResponse, 0, len(detail.Vehicles))
	for _, vehicle := range detail.Vehicles {
		vehicleItems = append(vehicleItems, dto.VehicleResponse{
			ID:          vehicle.ID,
			UnitID:      vehicle.UnitID,
			Name:        vehicle.Name,
			VehicleType: vehicle.VehicleType,
			Status:      vehicle.Status,
		})
	}
	incident := detail.Incident
	return dto.DispatchDetailResponse{
		DispatchSummary: dispatchSummary(detail.Record),
		Incident: dto.IncidentSummary{
			ID:            incident.ID,
			Title:         incident.Title,
			EmergencyType: incident.EmergencyType,
			Severity:      incident.Severity,
			Location:      incident.Location,
			Status:        incident.Status,
			DispatchState: incident.DispatchState,
		},
		Vehicles: vehicleItems,
		Notes:    noteItems,
	}
}

func noteResponse(note domain.DispatchNote) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        note.ID,
		Category:  string(note.Category),
		Author:    note.Author,
		Body:      note.Body,
		Line:      note.Line(),
		CreatedAt: note.CreatedAt,
	}
}
