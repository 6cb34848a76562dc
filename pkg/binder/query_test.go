package binder_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/binder"
)

type listRequest struct {
	ID       string   `path:"id"`
	UserID   string   `query:"user_id"`
	Limit    int      `query:"limit"`
	Offset   uint     `query:"offset"`
	Unread   *bool    `query:"unread"`
	IDs      []string `query:"ids"`
	Internal string   `query:"-"`
	Untagged string
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields only", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?user_id=u1&limit=20&offset=5&unread=yes&ids=a,b&ids=c&Internal=x&untagged=y", nil)

		var got listRequest
		require.NoError(t, binder.Query()(req, &got))
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, 20, got.Limit)
		assert.Equal(t, uint(5), got.Offset)
		require.NotNil(t, got.Unread)
		assert.True(t, *got.Unread)
		assert.Equal(t, []string{"a", "b", "c"}, got.IDs)
		assert.Empty(t, got.Internal)
		assert.Empty(t, got.Untagged)
	})

	t.Run("absent optional stays nil", func(t *testing.T) {
		t.Parallel()
		var got listRequest
		require.NoError(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &got))
		assert.Nil(t, got.Unread)
		assert.Zero(t, got.Limit)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()
		var got listRequest
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/?limit=ten", nil), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseQuery)
		assert.Contains(t, err.Error(), "limit")
	})

	t.Run("negative into unsigned", func(t *testing.T) {
		t.Parallel()
		var got listRequest
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/?offset=-1", nil), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseQuery)
	})

	t.Run("target must be a struct pointer", func(t *testing.T) {
		t.Parallel()
		var s string
		assert.ErrorIs(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &s), binder.ErrFailedToParseQuery)
		assert.ErrorIs(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), listRequest{}), binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()
	params := map[string]string{"id": "n-1", "user_id": "ignored"}
	extractor := func(_ *http.Request, name string) string { return params[name] }

	var got listRequest
	require.NoError(t, binder.Path(extractor)(httptest.NewRequest(http.MethodGet, "/", nil), &got))
	assert.Equal(t, "n-1", got.ID)
	assert.Empty(t, got.UserID)

	err := binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/", nil), &got)
	assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
}
