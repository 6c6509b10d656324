package connections

import (
	"context"
	"errors"
	"fmt"

	"tablediff/core/endpoint"
	"tablediff/core/errs"
	"tablediff/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalid is returned for connections missing required parameters.
var ErrInvalid = errors.New("invalid connection")

// Service manages the connection registry. It implements compare.ConnectionResolver.
type Service struct {
	db     *gorm.DB
	cache  *reconcile.SchemaCache
	logger *zap.Logger
}

// NewService creates a new connection service. Cached table descriptions of a
// connection are dropped from cache whenever it changes; cache may be nil.
func NewService(db *gorm.DB, cache *reconcile.SchemaCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, cache: cache, logger: logger}
}

// Migrate creates the connections table.
func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

// Create registers c. An empty ID is replaced by a fresh UUID.
func (s *Service) Create(ctx context.Context, c endpoint.Connection) (*Record, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	rec := fromConnection(c)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create connection %s: %w", c.ID, err)
	}
	s.logger.Info("Connection registered", zap.String("connection_id", rec.ID), zap.String("engine", rec.Engine))
	return &rec, nil
}

// Update replaces the parameters of connection id. Runs already executing keep the
// parameters they started with.
func (s *Service) Update(ctx context.Context, id string, c endpoint.Connection) (*Record, error) {
	c.ID = id
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := fromConnection(c)
	rec.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to update connection %s: %w", id, err)
	}
	s.invalidate(id)
	return &rec, nil
}

// List returns every registered connection ordered by name.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return recs, nil
}

// GetConnection returns a snapshot of connection id.
func (s *Service) GetConnection(ctx context.Context, id string) (endpoint.Connection, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return endpoint.Connection{}, err
	}
	return rec.Connection(), nil
}

// Delete removes connection id.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Record{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete connection %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: connection %s", errs.ErrNotFound, id)
	}
	s.invalidate(id)
	s.logger.Info("Connection removed", zap.String("connection_id", id))
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: connection %s", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load connection %s: %w", id, err)
	}
	return &rec, nil
}

func (s *Service) invalidate(id string) {
	if s.cache != nil {
		s.cache.InvalidateConnection(id)
	}
}
