package providers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
)

func message() notify.Message {
	return notify.Message{
		NotificationID: "n-1",
		UserID:         "cleaner-1",
		OrgID:          "org-1",
		EventType:      event.TypeCleaningAssigned,
		Title:          "New cleaning assigned",
		Body:           "You have been assigned to clean Sea View <3>",
		ActionURL:      "/cleanings/c1",
		Priority:       notify.PriorityHigh,
	}
}

// recorder is an HTTP endpoint that stores what it receives and answers
// with a fixed status and body.
type recorder struct {
	mu      sync.Mutex
	status  int
	reply   string
	bodies  []map[string]any
	headers []http.Header
	paths   []string
}

func newRecorder(t *testing.T, status int, reply string) (*recorder, *httptest.Server) {
	t.Helper()
	rec := &recorder{status: status, reply: reply}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))

		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.headers = append(rec.headers, r.Header.Clone())
		rec.paths = append(rec.paths, r.URL.Path)
		status, reply := rec.status, rec.reply
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return rec, srv
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func (r *recorder) last() (map[string]any, http.Header, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.bodies) - 1
	return r.bodies[n], r.headers[n], r.paths[n]
}
