package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/courier/pkg/notify"
)

// Settings is a notify.SettingsStore keeping one JSON document per user.
type Settings struct {
	client redis.Cmdable
	prefix string
}

var _ notify.SettingsStore = (*Settings)(nil)

// NewSettings stores documents under "<prefix>settings:<user id>".
func NewSettings(client redis.Cmdable, prefix string) *Settings {
	return &Settings{client: client, prefix: prefix}
}

func (s *Settings) key(userID string) string {
	return s.prefix + "settings:" + userID
}

func (s *Settings) GetSettings(ctx context.Context, userID string) (*notify.RecipientSettings, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, notify.ErrSettingsNotFound
	}
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notify.ErrSettingsNotFound
		}
		return nil, errors.Join(ErrRedis, err)
	}
	return decodeSettings(userID, raw)
}

// Put replaces the settings of rs.UserID.
func (s *Settings) Put(ctx context.Context, rs notify.RecipientSettings) error {
	if strings.TrimSpace(rs.UserID) == "" {
		return ErrMissingUserID
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		return errors.Join(ErrInvalidSettings, err)
	}
	if err := s.client.Set(ctx, s.key(rs.UserID), raw, 0).Err(); err != nil {
		return errors.Join(ErrRedis, err)
	}
	return nil
}

func (s *Settings) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return errors.Join(ErrRedis, err)
	}
	return nil
}

func decodeSettings(userID string, raw []byte) (*notify.RecipientSettings, error) {
	var rs notify.RecipientSettings
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, errors.Join(ErrInvalidSettings, err)
	}
	// The key is authoritative.
	rs.UserID = userID
	return &rs, nil
}
