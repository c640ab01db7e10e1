package chromedp_fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/repository"
)

// ChromedpFetcher renders a page in headless Chrome and returns the
// resulting markup, so classes added by scripts count as used.
type ChromedpFetcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	logger      *zap.Logger
}

// NewChromedpFetcher starts an exec allocator shared by all fetches.
func NewChromedpFetcher(timeout time.Duration, userAgent string, logger *zap.Logger) *ChromedpFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpFetcher{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		timeout:     timeout,
		logger:      logger,
	}
}

// Fetch implements repository.FetcherRepository.
func (f *ChromedpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	taskCtx, cancel := chromedp.NewContext(f.allocCtx, chromedp.WithLogf(f.logger.Sugar().Debugf))
	defer cancel()

	if f.timeout > 0 {
		var cancelTimeout context.CancelFunc
		taskCtx, cancelTimeout = context.WithTimeout(taskCtx, f.timeout)
		defer cancelTimeout()
	}

	// Tie the browser tab to the caller's lifetime as well.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &repository.FetchError{URL: url, Err: err}
	}

	f.logger.Debug("rendered page",
		zap.String("url", url),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	if html == "" {
		return "", &repository.FetchError{URL: url, Err: repository.ErrEmptyBody}
	}
	return html, nil
}

// Close shuts down the browser allocator.
func (f *ChromedpFetcher) Close() {
	f.cancelAlloc()
}
