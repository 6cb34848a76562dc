package notifications_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/notify"
)

func TestStreamPushesWebSocketMessages(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	require.NoError(t, e.inbox.Add(t.Context(), inbox.Item{ID: "old", UserID: "u1", Title: "Earlier", CreatedAt: time.Now()}))

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/users/u1/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	require.Eventually(t, func() bool { return e.ws.Connected("u1") == 1 }, time.Second, 5*time.Millisecond)

	res := e.ws.Send(t.Context(), notify.Message{
		NotificationID: "n-1",
		UserID:         "u1",
		EventType:      event.TypeCleaningAssigned,
		Title:          "Cleaning <assigned>",
		Body:           "Apt 1A",
	}, "u1")
	require.True(t, res.Success, res.ErrorText())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var got strings.Builder
	deadline := time.After(2 * time.Second)
	for !strings.Contains(got.String(), "last_notification_id") {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early: %s", got.String())
			got.WriteString(line + "\n")
		case <-deadline:
			t.Fatalf("no message on the stream: %s", got.String())
		}
	}

	out := got.String()
	assert.Contains(t, out, `"unread":1`)
	assert.Contains(t, out, "datastar-patch-elements")
	assert.Contains(t, out, `id="notification-n-1"`)
	assert.Contains(t, out, "Cleaning &lt;assigned&gt;")
	assert.Contains(t, out, "#notifications")

	cancel()
	assert.Eventually(t, func() bool { return e.ws.Connected("u1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestStreamRequiresEventStream(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/users/u1/stream", "")
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Equal(t, 0, e.ws.Connected("u1"))
}

func TestWebSocketFailsWithoutStream(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	res := e.ws.Send(t.Context(), notify.Message{NotificationID: "n-1", UserID: "u1"}, "u1")
	assert.False(t, res.Success)
}
