package handlers

import (
	"prediction-api/internal/models"
	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type SatelliteHandler struct {
	satelliteService *services.SatelliteService
}

func NewSatelliteHandler(satelliteService *services.SatelliteService) *SatelliteHandler {
	return &SatelliteHandler{satelliteService: satelliteService}
}

func (h *SatelliteHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/satellites/:name", h.GetByName)
	app.Post("/satellites", h.Create)
}

func (h *SatelliteHandler) GetByName(c fiber.Ctx) error {
	satellite, err := h.satelliteService.GetByName(c.Context(), c.Params("name"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(satellite)
}

func (h *SatelliteHandler) Create(c fiber.Ctx) error {
	var req models.CreateSatelliteRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	satellite, err := h.satelliteService.Create(c.Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(satellite)
}
