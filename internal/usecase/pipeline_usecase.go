package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/entity"
	"github.com/user/css-purge-service/internal/repository"
	"github.com/user/css-purge-service/pkg/metrics"
	"github.com/user/css-purge-service/pkg/utils"
)

// ArtifactNaming controls how artifact names and public paths are derived.
type ArtifactNaming struct {
	Prefix     string // e.g. "purged-"
	Fallback   string // used when the URL path has no basename
	PublicPath string // root the artifacts are served under, e.g. "/"
}

// Name returns the artifact file name for a stylesheet URL.
func (n ArtifactNaming) Name(refURL string) string {
	return utils.ArtifactName(refURL, n.Prefix, n.Fallback)
}

// URL returns the root-relative public path of an artifact.
func (n ArtifactNaming) URL(name string) string {
	return strings.TrimSuffix(n.PublicPath, "/") + "/" + name
}

// PurgePipeline defines the per-stylesheet fetch, purge and write step.
type PurgePipeline interface {
	// Process never fails; problems are reported in the outcome.
	Process(ctx context.Context, html string, ref entity.StylesheetRef) entity.ReferenceOutcome
}

type pipelineUseCase struct {
	cssFetcher repository.FetcherRepository
	purger     repository.PurgerRepository
	store      repository.ArtifactRepository
	naming     ArtifactNaming
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewPurgePipeline creates a new pipeline use case.
func NewPurgePipeline(
	cssFetcher repository.FetcherRepository,
	purger repository.PurgerRepository,
	store repository.ArtifactRepository,
	naming ArtifactNaming,
	m *metrics.Metrics,
	logger *zap.Logger,
) PurgePipeline {
	return &pipelineUseCase{
		cssFetcher: cssFetcher,
		purger:     purger,
		store:      store,
		naming:     naming,
		metrics:    m,
		logger:     logger,
	}
}

func (uc *pipelineUseCase) Process(ctx context.Context, html string, ref entity.StylesheetRef) entity.ReferenceOutcome {
	css, reason := uc.fetchCSS(ctx, ref.URL)
	if css == "" {
		return uc.skip(ref, reason)
	}

	purged, err := uc.purgeCSS(html, css)
	if err != nil {
		uc.logger.Error("failed to purge stylesheet", zap.String("url", ref.URL), zap.Error(err))
		return uc.skip(ref, err.Error())
	}

	name := uc.naming.Name(ref.URL)
	if err := uc.store.Save(ctx, name, []byte(purged)); err != nil {
		uc.logger.Error("failed to write purged stylesheet", zap.String("url", ref.URL), zap.String("name", name), zap.Error(err))
		return uc.skip(ref, fmt.Sprintf("failed to write %s", name))
	}

	uc.metrics.ObserveReference(metrics.OutcomeProduced)
	uc.metrics.ObserveBytes(len(css), len(purged))
	uc.logger.Info("purged stylesheet",
		zap.String("url", ref.URL),
		zap.String("name", name),
		zap.Int("bytes_in", len(css)),
		zap.Int("bytes_out", len(purged)),
	)

	return entity.ReferenceOutcome{
		Ref:      ref,
		Artifact: &entity.Artifact{Name: name, URL: uc.naming.URL(name)},
	}
}

// fetchCSS returns the stylesheet text, or "" and the reason when there is
// nothing to purge.
func (uc *pipelineUseCase) fetchCSS(ctx context.Context, refURL string) (string, string) {
	css, err := uc.cssFetcher.Fetch(ctx, refURL)
	if err != nil {
		uc.logger.Warn("failed to fetch stylesheet", zap.String("url", refURL), zap.Error(err))
		return "", err.Error()
	}
	if strings.TrimSpace(css) == "" {
		uc.logger.Info("skipping empty stylesheet", zap.String("url", refURL))
		return "", "stylesheet is empty"
	}
	return css, ""
}

// purgeCSS shields the pipeline from a misbehaving engine.
func (uc *pipelineUseCase) purgeCSS(html, css string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("purge engine panicked: %v", r)
		}
	}()
	out, err = uc.purger.Purge(html, css)
	if err != nil {
		return "", fmt.Errorf("purge failed: %w", err)
	}
	return out, nil
}

func (uc *pipelineUseCase) skip(ref entity.StylesheetRef, reason string) entity.ReferenceOutcome {
	uc.metrics.ObserveReference(metrics.OutcomeSkipped)
	uc.logger.Warn("skipped stylesheet",
		zap.String("url", ref.URL),
		zap.String("href", ref.Href),
		zap.String("reason", reason),
	)
	return entity.ReferenceOutcome{Ref: ref, SkipReason: reason}
}
