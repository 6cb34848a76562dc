package pgstore

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
)

func TestListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      notify.ListOptions
		wantWhere string
		wantTail  string
		wantArgs  []any
	}{
		{
			name:     "no filters",
			wantTail: "ORDER BY created_at DESC, id COLLATE \"C\" DESC",
		},
		{
			name:      "all filters with paging",
			opts:      notify.ListOptions{UserID: "u1", Status: notify.NotificationSent, EventType: event.TypeCleaningAssigned, Limit: 10, Offset: 20},
			wantWhere: "WHERE user_id = $1 AND status = $2 AND event_type = $3",
			wantTail:  "ORDER BY created_at DESC, id COLLATE \"C\" DESC LIMIT $4 OFFSET $5",
			wantArgs:  []any{"u1", "SENT", "CLEANING_ASSIGNED", 10, 20},
		},
		{
			name:      "offset only",
			opts:      notify.ListOptions{Status: notify.NotificationFailed, Offset: 5},
			wantWhere: "WHERE status = $1",
			wantTail:  "ORDER BY created_at DESC, id COLLATE \"C\" DESC OFFSET $2",
			wantArgs:  []any{"FAILED", 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args := listQuery(tt.opts)
			assert.True(t, strings.HasPrefix(query, "SELECT "+notificationColumns+" FROM notifications"))
			if tt.wantWhere == "" {
				assert.NotContains(t, query, "WHERE")
			} else {
				assert.Contains(t, query, tt.wantWhere)
			}
			assert.True(t, strings.HasSuffix(query, tt.wantTail), query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrations, MigrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		raw, err := fs.ReadFile(migrations, f)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "-- +goose Up", f)
		assert.Contains(t, string(raw), "-- +goose Down", f)
	}
}
