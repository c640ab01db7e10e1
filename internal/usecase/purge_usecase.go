package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/entity"
	"github.com/user/css-purge-service/pkg/metrics"
)

// Purger defines the interface for turning a page URL into purged stylesheets.
type Purger interface {
	Purge(ctx context.Context, pageURL string) (*entity.PurgeResult, error)
}

type purgeUseCase struct {
	discoverer StylesheetDiscoverer
	pipeline   PurgePipeline
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewPurger creates a new purge use case.
func NewPurger(discoverer StylesheetDiscoverer, pipeline PurgePipeline, m *metrics.Metrics, logger *zap.Logger) Purger {
	return &purgeUseCase{
		discoverer: discoverer,
		pipeline:   pipeline,
		metrics:    m,
		logger:     logger,
	}
}

// Purge discovers the page's stylesheets and runs the pipeline for each in
// order. Only discovery errors are returned; a request whose references all
// fail still succeeds with no artifacts.
func (uc *purgeUseCase) Purge(ctx context.Context, pageURL string) (*entity.PurgeResult, error) {
	start := time.Now()

	src, err := uc.discoverer.Discover(ctx, pageURL)
	if err != nil {
		reason := "page_fetch"
		if errors.Is(err, ErrNoStylesheets) {
			reason = "no_stylesheets"
		}
		uc.metrics.RequestsRejectedTotal.WithLabelValues(reason).Inc()
		uc.logger.Warn("purge request rejected", zap.String("url", pageURL), zap.Error(err))
		return nil, err
	}
	uc.metrics.StylesheetsDiscovered.Observe(float64(len(src.Stylesheets)))

	result := &entity.PurgeResult{Artifacts: []entity.Artifact{}}
	for _, ref := range src.Stylesheets {
		outcome := uc.pipeline.Process(ctx, src.HTML, ref)
		if outcome.Produced() {
			result.Artifacts = append(result.Artifacts, *outcome.Artifact)
			continue
		}
		result.Skipped = append(result.Skipped, entity.SkippedRef{URL: ref.URL, Reason: outcome.SkipReason})
	}

	uc.logger.Info("purge request completed",
		zap.String("url", pageURL),
		zap.Int("stylesheets", len(src.Stylesheets)),
		zap.Int("artifacts", len(result.Artifacts)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, nil
}
