package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

// ThemeDetector is the part of the theme manager the safety net drives.
type ThemeDetector interface {
	Cached(ctx context.Context) (domain.ThemeInfo, bool, error)
	Detect(ctx context.Context) (domain.ThemeInfo, error)
}

// ThemeSafetyNet re-runs theme detection once, a short delay after startup,
// when no detection result has been stored by then.
type ThemeSafetyNet struct {
	theme    ThemeDetector
	logger   logger.Logger
	delay    time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewThemeSafetyNet creates the one-shot re-detection.
func NewThemeSafetyNet(theme ThemeDetector, log logger.Logger, delay time.Duration) *ThemeSafetyNet {
	return &ThemeSafetyNet{
		theme:  theme,
		logger: log.With(logger.String("component", "theme_safety_net")),
		delay:  delay,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start arms the timer.
func (sn *ThemeSafetyNet) Start(ctx context.Context) error {
	timer := time.NewTimer(sn.delay)
	go func() {
		defer close(sn.done)
		defer timer.Stop()
		select {
		case <-timer.C:
			sn.check(ctx)
		case <-sn.stopCh:
		case <-ctx.Done():
		}
	}()
	return nil
}

// Stop disarms the timer if it has not fired yet.
func (sn *ThemeSafetyNet) Stop() {
	sn.stopOnce.Do(func() { close(sn.stopCh) })
}

// Done is closed once the safety net has fired or been stopped.
func (sn *ThemeSafetyNet) Done() <-chan struct{} {
	return sn.done
}

func (sn *ThemeSafetyNet) check(ctx context.Context) {
	_, ok, err := sn.theme.Cached(ctx)
	if err != nil {
		sn.logger.Warn("failed to read cached theme", logger.Error(err))
		return
	}
	if ok {
		sn.logger.Debug("theme already detected")
		return
	}

	info, err := sn.theme.Detect(ctx)
	if err != nil {
		sn.logger.Warn("theme re-detection failed", logger.Error(err))
		return
	}
	sn.logger.Info("theme re-detected", logger.String("theme", string(info.Theme)))
}
