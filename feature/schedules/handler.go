package schedules

import (
	"errors"

	"tablediff/core/errs"
	"tablediff/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for scheduled comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the schedule routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/schedules")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/:id/run", h.HandleRun)
}

// HandleCreate stores a scheduled comparison.
// @Summary Create Scheduled Comparison
// @Description Repeats a comparison on a preset (15min, 1hour, 6hours, 12hours, daily), an interval in minutes or a cron expression.
// @Tags schedules
// @Accept json
// @Produce json
// @Param task body Input true "Task definition"
// @Success 201 {object} Task
// @Failure 400 {object} map[string]string "Invalid task"
// @Router /schedules [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	t, err := h.service.Create(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// HandleList lists scheduled comparisons.
// @Summary List Scheduled Comparisons
// @Tags schedules
// @Produce json
// @Success 200 {array} Task
// @Router /schedules [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(tasks)
}

// HandleGet returns one scheduled comparison.
// @Summary Get Scheduled Comparison
// @Tags schedules
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} Task
// @Failure 404 {object} map[string]string "Not Found"
// @Router /schedules/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	t, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// HandleUpdate replaces a scheduled comparison.
// @Summary Update Scheduled Comparison
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body Input true "Task definition"
// @Success 200 {object} Task
// @Failure 400 {object} map[string]string "Invalid task"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /schedules/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	t, err := h.service.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// HandleDelete removes a scheduled comparison.
// @Summary Delete Scheduled Comparison
// @Tags schedules
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /schedules/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRun starts a scheduled comparison now.
// @Summary Run Scheduled Comparison Now
// @Tags schedules
// @Produce json
// @Param id path string true "Task ID"
// @Success 202 {object} map[string]string "task_id"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Already running"
// @Router /schedules/{id}/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	t, err := h.service.RunNow(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Scheduled task triggered", zap.String("task_id", t.ID))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": t.ID})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "kind": errs.KindNotFound})
	case errors.Is(err, ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrAlreadyRunning):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.WithRayID(h.service.logger, c).Error("Schedule request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "kind": errs.KindOf(err)})
	}
}
