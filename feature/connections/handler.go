package connections

import (
	"errors"

	"tablediff/core/endpoint"
	"tablediff/core/errs"
	"tablediff/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the connection registry.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the connection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/connections")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleCreate registers a connection.
// @Summary Register Connection
// @Description Registers a database endpoint (sqlite, mysql, mariadb or postgres).
// @Tags connections
// @Accept json
// @Produce json
// @Param connection body endpoint.Connection true "Connection parameters"
// @Success 201 {object} View
// @Failure 400 {object} map[string]string "Invalid connection"
// @Router /connections [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var conn endpoint.Connection
	if err := c.BodyParser(&conn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rec, err := h.service.Create(c.Context(), conn)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec.View())
}

// HandleList lists registered connections.
// @Summary List Connections
// @Tags connections
// @Produce json
// @Success 200 {array} View
// @Router /connections [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	recs, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	views := make([]View, len(recs))
	for i, r := range recs {
		views[i] = r.View()
	}
	return c.JSON(views)
}

// HandleGet returns one connection.
// @Summary Get Connection
// @Tags connections
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} View
// @Failure 404 {object} map[string]string "Not Found"
// @Router /connections/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	rec, err := h.service.get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec.View())
}

// HandleUpdate replaces a connection's parameters.
// @Summary Update Connection
// @Tags connections
// @Accept json
// @Produce json
// @Param id path string true "Connection ID"
// @Param connection body endpoint.Connection true "Connection parameters"
// @Success 200 {object} View
// @Failure 400 {object} map[string]string "Invalid connection"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /connections/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var conn endpoint.Connection
	if err := c.BodyParser(&conn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rec, err := h.service.Update(c.Context(), c.Params("id"), conn)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec.View())
}

// HandleDelete removes a connection.
// @Summary Delete Connection
// @Tags connections
// @Param id path string true "Connection ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /connections/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "kind": errs.KindNotFound})
	case errors.Is(err, ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.WithRayID(h.service.logger, c).Error("Connection request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "kind": errs.KindOf(err)})
	}
}
