package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/entity"
	"github.com/user/css-purge-service/internal/repository"
	"github.com/user/css-purge-service/pkg/utils"
)

var (
	// ErrNoStylesheets is returned when a page links no stylesheets.
	ErrNoStylesheets = errors.New("no CSS files found")
)

const stylesheetSelector = `link[rel~="stylesheet"]`

// StylesheetDiscoverer defines the interface for fetching a page and
// listing the stylesheets it links.
type StylesheetDiscoverer interface {
	Discover(ctx context.Context, pageURL string) (*entity.SourceDocument, error)
}

type discoveryUseCase struct {
	pageFetcher repository.FetcherRepository
	logger      *zap.Logger
}

// NewStylesheetDiscoverer creates a new discovery use case.
func NewStylesheetDiscoverer(pageFetcher repository.FetcherRepository, logger *zap.Logger) StylesheetDiscoverer {
	return &discoveryUseCase{
		pageFetcher: pageFetcher,
		logger:      logger,
	}
}

// Discover fails with a *repository.FetchError when the page cannot be
// retrieved and with ErrNoStylesheets when it links nothing to purge.
func (uc *discoveryUseCase) Discover(ctx context.Context, pageURL string) (*entity.SourceDocument, error) {
	html, err := uc.pageFetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	refs, err := ExtractStylesheets(pageURL, html, uc.logger)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, ErrNoStylesheets
	}

	uc.logger.Info("discovered stylesheets", zap.String("url", pageURL), zap.Int("count", len(refs)))
	return &entity.SourceDocument{URL: pageURL, HTML: html, Stylesheets: refs}, nil
}

// ExtractStylesheets parses HTML content and returns the linked stylesheets
// as absolute URLs in document order. Links without a usable href are skipped.
func ExtractStylesheets(pageURL, htmlContent string, logger *zap.Logger) ([]entity.StylesheetRef, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &repository.FetchError{URL: pageURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", pageURL, err)
	}

	var refs []entity.StylesheetRef
	doc.Find(stylesheetSelector).Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			logger.Warn("stylesheet link without href", zap.String("url", pageURL), zap.Int("index", i))
			return
		}
		abs, err := utils.ToAbsoluteURL(base, href)
		if err != nil {
			logger.Warn("unresolvable stylesheet href", zap.String("url", pageURL), zap.String("href", href), zap.Error(err))
			return
		}
		refs = append(refs, entity.StylesheetRef{URL: abs, Href: href})
	})
	return refs, nil
}
