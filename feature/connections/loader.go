package connections

import (
	"tablediff/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new connections feature.
func NewFeature(db *gorm.DB, cache *reconcile.SchemaCache, logger *zap.Logger) *Feature {
	svc := NewService(db, cache, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service returns the registry, used as the comparison runner's connection resolver.
func (f *Feature) Service() *Service { return f.service }

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "connections"
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
