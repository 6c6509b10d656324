package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tablediff/core/logger"
	"tablediff/core/results"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errInvalidDate = errors.New("invalid date")

// Handler serves aggregate reports over completed runs.
type Handler struct {
	store  *results.Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *results.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/dashboard")
	group.Get("/changes-over-time", h.HandleChangesOverTime)
	group.Get("/field-frequency", h.HandleFieldFrequency)
	group.Get("/summary", h.HandleSummary)
}

// HandleChangesOverTime returns per-day record counts by change type.
// @Summary Changes Over Time
// @Description Buckets the records of completed runs by the UTC date their run completed.
// @Tags dashboard
// @Produce json
// @Param project_id query string false "Project filter"
// @Param run_ids query string false "Comma separated run ids"
// @Param start query string false "Inclusive lower bound, RFC3339 or YYYY-MM-DD"
// @Param end query string false "Inclusive upper bound, RFC3339 or YYYY-MM-DD"
// @Success 200 {object} map[string]map[string]int
// @Failure 400 {object} map[string]string "Invalid date"
// @Router /dashboard/changes-over-time [get]
func (h *Handler) HandleChangesOverTime(c *fiber.Ctx) error {
	start, err := parseBound(c.Query("start"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	end, err := parseBound(c.Query("end"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	out, err := h.store.ChangesOverTime(c.UserContext(), selector(c), start, end)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// HandleFieldFrequency returns record counts per field name.
// @Summary Field Frequency
// @Tags dashboard
// @Produce json
// @Param project_id query string false "Project filter"
// @Param run_ids query string false "Comma separated run ids"
// @Success 200 {array} results.FieldCount
// @Router /dashboard/field-frequency [get]
func (h *Handler) HandleFieldFrequency(c *fiber.Ctx) error {
	out, err := h.store.FieldFrequency(c.UserContext(), selector(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// HandleSummary returns run and difference totals.
// @Summary Summary
// @Tags dashboard
// @Produce json
// @Param project_id query string false "Project filter"
// @Param run_ids query string false "Comma separated run ids"
// @Success 200 {object} results.Summary
// @Router /dashboard/summary [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	out, err := h.store.Summary(c.UserContext(), selector(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	logger.WithRayID(h.logger, c).Error("Dashboard query failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func selector(c *fiber.Ctx) results.Selector {
	sel := results.Selector{ProjectID: c.Query("project_id")}
	for _, id := range strings.Split(c.Query("run_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			sel.RunIDs = append(sel.RunIDs, id)
		}
	}
	return sel
}

// parseBound parses an RFC3339 timestamp or a calendar date. A date used as an upper
// bound covers the whole day.
func parseBound(v string, upper bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errInvalidDate, v)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
