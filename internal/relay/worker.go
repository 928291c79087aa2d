package relay

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

const (
	defaultFetchTimeout = 5 * time.Second
	// maxFetchBytes caps a relayed download.
	maxFetchBytes = 2 << 20
)

// ErrStopped is returned by Send once the worker has been stopped.
var ErrStopped = errors.New("relay worker stopped")

// Options configures a Worker.
type Options struct {
	// FetchTimeout bounds a single fetchFavicon round trip.
	FetchTimeout time.Duration
	// SearchTemplate is the native engine used by performSearch; it must contain %s.
	SearchTemplate string
	// Navigator receives performSearch URLs. Defaults to BrowserNavigator.
	Navigator Navigator
	// Client overrides the HTTP client, mostly for tests.
	Client *http.Client
}

type envelope struct {
	ctx   context.Context
	req   Request
	reply chan Response
}

// Worker serves Requests on its own goroutine. Messages are received one
// at a time; each fetch then completes independently, the way an
// asynchronous request does in a single-threaded worker.
type Worker struct {
	client         *http.Client
	nav            Navigator
	searchTemplate string
	logger         logger.Logger

	inbox    chan envelope
	stopCh   chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	inflight sync.WaitGroup
	done     chan struct{}
}

// NewWorker builds a worker. Call Start before sending.
func NewWorker(opts Options, log logger.Logger) *Worker {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.Navigator == nil {
		opts.Navigator = BrowserNavigator{}
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.FetchTimeout}
	}

	return &Worker{
		client:         client,
		nav:            opts.Navigator,
		searchTemplate: opts.SearchTemplate,
		logger:         log.With(logger.String("component", "relay")),
		inbox:          make(chan envelope),
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start runs the receive loop until Stop is called or ctx ends.
func (w *Worker) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(w.done)
		for {
			select {
			case env := <-w.inbox:
				w.inflight.Add(1)
				go func() {
					defer w.inflight.Done()
					env.reply <- w.handle(env.ctx, env.req)
				}()
			case <-w.stopCh:
				w.inflight.Wait()
				return
			case <-ctx.Done():
				w.inflight.Wait()
				return
			}
		}
	}()
	w.logger.Info("relay worker started")
}

// Stop ends the loop and waits for in-flight requests.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	if w.started.Load() {
		<-w.done
	}
}

// Send delivers req and waits for its response.
func (w *Worker) Send(ctx context.Context, req Request) (Response, error) {
	env := envelope{ctx: ctx, req: req, reply: make(chan Response, 1)}

	select {
	case w.inbox <- env:
	case <-w.stopCh:
		return Response{}, ErrStopped
	case <-w.done:
		return Response{}, ErrStopped
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case resp := <-env.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// FetchDataURL relays a fetchFavicon request and unwraps the result.
func (w *Worker) FetchDataURL(ctx context.Context, url string) (string, error) {
	resp, err := w.Send(ctx, Request{Action: ActionFetchFavicon, URL: url})
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", errors.New(resp.Error)
	}
	return resp.DataURL, nil
}

func (w *Worker) handle(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionFetchFavicon:
		return w.fetch(ctx, req.URL)
	case ActionPerformSearch:
		w.search(req.Text)
		return Response{Success: true}
	default:
		return failure(fmt.Sprintf("unknown action: %q", req.Action))
	}
}

func (w *Worker) fetch(ctx context.Context, url string) Response {
	if url == "" {
		return failure("url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return failure(fmt.Sprintf("invalid url: %v", err))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Debug("relay fetch failed", logger.String("url", url), logger.Error(err))
		return failure("Network error occurred")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return failure(fmt.Sprintf("HTTP error! status: %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return failure("Failed to read blob data")
	}
	if len(data) > maxFetchBytes {
		return failure("Failed to read blob data: response too large")
	}

	return Response{Success: true, DataURL: EncodeDataURL(resp.Header.Get("Content-Type"), data)}
}

func (w *Worker) search(text string) {
	text = strings.TrimSpace(text)
	if text == "" || w.searchTemplate == "" {
		return
	}
	target := domain.ExpandTemplate(w.searchTemplate, text)

	// fire-and-forget
	go func() {
		if err := w.nav.Navigate(target); err != nil {
			w.logger.Warn("native search failed", logger.String("url", target), logger.Error(err))
		}
	}()
}

// EncodeDataURL wraps data in a base64 data URL. The media type comes from
// contentType when it parses, otherwise it is sniffed.
func EncodeDataURL(contentType string, data []byte) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
