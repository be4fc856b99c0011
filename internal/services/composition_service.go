package services

import (
	"context"
	"log/slog"

	"prodboard/internal/composition"
	apperrors "prodboard/internal/errors"
	"prodboard/pkg/contracts/domain"
)

// CompositionService quotes composed products over the loaded composition
// tables.
type CompositionService struct {
	source   SnapshotSource
	composer *composition.Composer
	logger   *slog.Logger
}

// NewCompositionService creates a composition service.
func NewCompositionService(source SnapshotSource, composer *composition.Composer, logger *slog.Logger) *CompositionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompositionService{
		source:   source,
		composer: composer,
		logger:   logger.With(slog.String("component", "composition_service")),
	}
}

func (s *CompositionService) tables() (*domain.CompositionTables, error) {
	snap := s.source.Snapshot()
	if snap == nil {
		return nil, errNotLoaded()
	}
	if snap.Composition == nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeLoadDegraded, "composition sources are not loaded", nil)
	}
	return snap.Composition, nil
}

// Products lists the products that have a composition.
func (s *CompositionService) Products(ctx context.Context) ([]string, error) {
	t, err := s.tables()
	if err != nil {
		return nil, err
	}
	products := t.Products()
	if products == nil {
		products = []string{}
	}
	return products, nil
}

// Quote composes the unit cost of req.Product.
func (s *CompositionService) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	t, err := s.tables()
	if err != nil {
		return nil, err
	}
	q, err := s.composer.Quote(ctx, t, req)
	if err != nil {
		return nil, err
	}
	if len(q.Warnings) > 0 {
		s.logger.InfoContext(ctx, "quote has lookup misses",
			slog.String("product", q.Product),
			slog.Int("warnings", len(q.Warnings)))
	}
	return q, nil
}
