package handlers

import (
	"prediction-api/internal/models"
	"prediction-api/internal/repository"
	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type ModelHandler struct {
	modelService *services.ModelService
}

func NewModelHandler(modelService *services.ModelService) *ModelHandler {
	return &ModelHandler{modelService: modelService}
}

func (h *ModelHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/model", h.List)
	app.Get("/model/:model_id", h.GetByModelID)
	app.Post("/model", h.Create)
}

func (h *ModelHandler) List(c fiber.Ctx) error {
	version, err := intQueryOrDefault(c, "version", 0)
	if err != nil {
		return err
	}

	filter := repository.ModelFilter{
		ModelID:  c.Query("model_id"),
		ModelURL: c.Query("model_url"),
		Version:  version,
		Type:     models.ModelType(c.Query("type")),
	}

	results, err := h.modelService.List(c.Context(), filter)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(results)
}

// GetByModelID returns the latest version registered under the model id.
func (h *ModelHandler) GetByModelID(c fiber.Ctx) error {
	model, err := h.modelService.GetByModelID(c.Context(), c.Params("model_id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(model)
}

func (h *ModelHandler) Create(c fiber.Ctx) error {
	var req models.CreateModelRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	response, err := h.modelService.Create(c.Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}
