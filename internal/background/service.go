// Package background manages the custom background image stored as a
// JPEG data URL under customBg.
package background

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/imaging"
	"github.com/Noyllopa/LiquidNewtab/internal/kv"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

const (
	DefaultMaxUploadBytes = 5 << 20
	DefaultRandomURL      = "https://picsum.photos/1920/1080"
	MaxWidth              = 1920
	MaxHeight             = 1080
	JPEGQuality           = 70

	defaultFetchTimeout = 15 * time.Second
)

// ErrFetch marks a failed random-background download. Stored state is untouched.
var ErrFetch = errors.New("failed to fetch background")

// Invalidator drops derived theme state after the background changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Options configures a Service.
type Options struct {
	MaxUploadBytes int64
	RandomURL      string
	Client         *http.Client
}

// Service sets, randomizes and resets the background.
type Service struct {
	store    kv.Store
	theme    Invalidator
	client   *http.Client
	maxBytes int64
	random   string
	logger   logger.Logger
}

// NewService builds a Service.
func NewService(store kv.Store, theme Invalidator, opts Options, log logger.Logger) *Service {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.RandomURL == "" {
		opts.RandomURL = DefaultRandomURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &Service{
		store:    store,
		theme:    theme,
		client:   opts.Client,
		maxBytes: opts.MaxUploadBytes,
		random:   opts.RandomURL,
		logger:   log.With(logger.String("component", "background")),
	}
}

// MaxUploadBytes is the largest accepted upload.
func (s *Service) MaxUploadBytes() int64 { return s.maxBytes }

// Current returns the stored background data URL, if any.
func (s *Service) Current(ctx context.Context) (string, bool, error) {
	bg, err := kv.GetString(ctx, s.store, kv.KeyCustomBg, "")
	if err != nil {
		return "", false, err
	}
	return bg, bg != "" && bg != "none", nil
}

// SetFromUpload validates, downscales and stores an uploaded image.
func (s *Service) SetFromUpload(ctx context.Context, data []byte) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: image is larger than %d MiB", domain.ErrValidation, s.maxBytes>>20)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", domain.ErrValidation)
	}
	return s.set(ctx, data)
}

// SetRandom downloads an image from the random-background service and
// stores it like an upload.
func (s *Service) SetRandom(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.random, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("random background fetch failed", logger.Error(err))
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP error! status: %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes*4))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return s.set(ctx, data)
}

// Reset removes the background and the theme derived from it.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Remove(ctx, kv.KeyCustomBg); err != nil {
		return fmt.Errorf("failed to remove background: %w", err)
	}
	s.logger.Info("background reset")
	return s.theme.Invalidate(ctx)
}

func (s *Service) set(ctx context.Context, data []byte) (string, error) {
	img, format, err := imaging.Decode(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fitted := imaging.Fit(img, MaxWidth, MaxHeight)
	url, err := imaging.EncodeJPEGDataURL(fitted, JPEGQuality)
	if err != nil {
		return "", err
	}

	if err := kv.SetJSON(ctx, s.store, kv.KeyCustomBg, url); err != nil {
		return "", fmt.Errorf("failed to store background: %w", err)
	}

	b := fitted.Bounds()
	s.logger.Info("background updated",
		logger.String("format", format),
		logger.Int("width", b.Dx()),
		logger.Int("height", b.Dy()),
		logger.Int("bytes", len(url)))

	if err := s.theme.Invalidate(ctx); err != nil {
		return "", err
	}
	return url, nil
}
