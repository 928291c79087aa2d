package relay

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func startWorker(t *testing.T, opts Options) *Worker {
	t.Helper()
	w := NewWorker(opts, logger.NewNop())
	w.Start(context.Background())
	t.Cleanup(w.Stop)
	return w
}

func TestFetchFavicon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/favicon.png":
			rw.Header().Set("Content-Type", "image/png")
			_, _ = rw.Write(pngHeader)
		case "/sniffed.png":
			rw.Header()["Content-Type"] = nil
			_, _ = rw.Write(pngHeader)
		default:
			http.NotFound(rw, r)
		}
	}))
	defer srv.Close()

	w := startWorker(t, Options{})
	ctx := context.Background()

	resp, err := w.Send(ctx, Request{Action: ActionFetchFavicon, URL: srv.URL + "/favicon.png"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), resp.DataURL)

	resp, err = w.Send(ctx, Request{Action: ActionFetchFavicon, URL: srv.URL + "/sniffed.png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.DataURL, "data:image/png;base64,"), resp.DataURL)

	resp, err = w.Send(ctx, Request{Action: ActionFetchFavicon, URL: srv.URL + "/favicon.ico"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "HTTP error! status: 404", resp.Error)

	_, err = w.FetchDataURL(ctx, "http://127.0.0.1:1/favicon.ico")
	assert.EqualError(t, err, "Network error occurred")
}

func TestPerformSearch(t *testing.T) {
	got := make(chan string, 1)
	w := startWorker(t, Options{
		SearchTemplate: "https://www.bing.com/search?q=%s",
		Navigator: NavigatorFunc(func(url string) error {
			got <- url
			return nil
		}),
	})

	resp, err := w.Send(context.Background(), Request{Action: ActionPerformSearch, Text: "a b"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	select {
	case url := <-got:
		assert.Equal(t, "https://www.bing.com/search?q=a%20b", url)
	case <-time.After(time.Second):
		t.Fatal("navigator was not called")
	}
}

func TestUnknownAction(t *testing.T) {
	w := startWorker(t, Options{})
	resp, err := w.Send(context.Background(), Request{Action: "explode"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown action")
}

func TestSendAfterStop(t *testing.T) {
	w := NewWorker(Options{}, logger.NewNop())
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	_, err := w.Send(context.Background(), Request{Action: ActionPerformSearch})
	assert.ErrorIs(t, err, ErrStopped)
}
