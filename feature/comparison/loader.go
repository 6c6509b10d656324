package comparison

import (
	"tablediff/core/compare"
	"tablediff/core/export"
	"tablediff/core/results"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new comparison feature.
func NewFeature(runner *compare.Runner, store *results.Store, publisher *export.Publisher, sinks SinkFactory, logger *zap.Logger) *Feature {
	svc := NewService(runner, store, publisher, sinks, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "comparison"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
