package resend

import (
	"context"
	"net/http"
	"sync/atomic"
)

type recorderKey struct{}

// statusRecorder captures the HTTP status of the last API response,
// which the Resend client does not expose on errors.
type statusRecorder struct {
	code atomic.Int32
}

func (r *statusRecorder) status() int {
	return int(r.code.Load())
}

func withRecorder(ctx context.Context, rec *statusRecorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

// statusTransport stores response status codes into the request's recorder.
type statusTransport struct {
	next http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if rec, ok := req.Context().Value(recorderKey{}).(*statusRecorder); ok {
			rec.code.Store(int32(resp.StatusCode))
		}
	}
	return resp, err
}
