// Package relay is the background worker that performs network fetches
// and search invocations on behalf of the page.
package relay

// Actions understood by the worker.
const (
	ActionFetchFavicon  = "fetchFavicon"
	ActionPerformSearch = "performSearch"
)

// Request is one message sent to the worker.
type Request struct {
	Action string `json:"action"`
	URL    string `json:"url,omitempty"`
	Text   string `json:"text,omitempty"`
}

// Response answers a Request. fetchFavicon fills DataURL on success and
// Error otherwise; performSearch only acknowledges.
type Response struct {
	Success bool   `json:"success"`
	DataURL string `json:"dataUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failure(msg string) Response {
	return Response{Success: false, Error: msg}
}
