package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/notify/redisstore"
	"github.com/dmitrymomot/courier/pkg/redis"
)

func TestSettings_Redis(t *testing.T) {
	url := os.Getenv("COURIER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("COURIER_TEST_REDIS_URL is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: url, RetryAttempts: 1, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.NewSettings(client, "courier-test:"+uuid.NewString()+":")
	userID := uuid.NewString()

	_, err = store.GetSettings(ctx, userID)
	assert.ErrorIs(t, err, notify.ErrSettingsNotFound)
	assert.True(t, notify.IsOptedOut(err))

	require.NoError(t, store.Put(ctx, notify.RecipientSettings{
		UserID:               userID,
		Enabled:              true,
		EnabledChannels:      []notify.Channel{notify.ChannelSMS},
		SubscribedEventTypes: []event.Type{event.TypePaymentFailed},
		ChannelAddress:       map[notify.Channel]string{notify.ChannelSMS: "+15550100"},
	}))

	rs, err := store.GetSettings(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []notify.Channel{notify.ChannelSMS}, rs.EnabledChannels)
	addr, _ := rs.Address(notify.ChannelSMS, userID)
	assert.Equal(t, "+15550100", addr)

	require.NoError(t, store.Delete(ctx, userID))
	_, err = store.GetSettings(ctx, userID)
	assert.ErrorIs(t, err, notify.ErrSettingsNotFound)

	assert.ErrorIs(t, store.Put(ctx, notify.RecipientSettings{}), redisstore.ErrMissingUserID)
}
