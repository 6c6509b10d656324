package schedules

import (
	"tablediff/core/schedule"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	cfg     schedule.Config
}

// NewFeature creates a new schedules feature.
func NewFeature(db *gorm.DB, runner Runner, cfg schedule.Config, logger *zap.Logger) *Feature {
	svc := NewService(db, runner, logger)
	return &Feature{service: svc, handler: NewHandler(svc), cfg: cfg}
}

// Service returns the scheduler.
func (f *Feature) Service() *Service { return f.service }

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "schedules"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.cfg.Enabled
}

// Load migrates the task table, registers the routes and starts the scheduler loop.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	f.service.Start(f.cfg.Tick())
	return nil
}
