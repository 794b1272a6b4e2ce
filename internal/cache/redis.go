// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/matchcards/internal/models"
	"github.com/jason-s-yu/matchcards/internal/theme"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	// ActionStream is the Redis stream every session's actions are appended to.
	ActionStream = "game_actions"
	// actionStreamMaxLen caps the stream (approximate trimming).
	actionStreamMaxLen = 100000
)

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Printf("Redis: connected to %s.", opts.Addr)
	return rdb, nil
}

// actionChannel is the pub/sub channel live observers of one game listen on.
func actionChannel(rec models.GameActionRecord) string {
	return fmt.Sprintf("game:%s:actions", rec.GameID)
}

// ActionPublisher appends action records to ActionStream and fans them out
// on the game's pub/sub channel.
type ActionPublisher struct {
	rdb redis.Cmdable
}

// NewActionPublisher wraps a Redis client.
func NewActionPublisher(rdb redis.Cmdable) *ActionPublisher {
	return &ActionPublisher{rdb: rdb}
}

// PublishGameAction writes rec to the stream and the game channel in one pipeline.
func (p *ActionPublisher) PublishGameAction(ctx context.Context, rec models.GameActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	_, err = p.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: ActionStream,
			MaxLen: actionStreamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"gameId": rec.GameID.String(),
				"index":  rec.ActionIndex,
				"record": data,
			},
		})
		pipe.Publish(ctx, actionChannel(rec), data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish action %d: %w", rec.ActionIndex, err)
	}
	return nil
}

// ThemeStore is a theme.BlobStore backed by plain Redis string keys.
type ThemeStore struct {
	rdb redis.Cmdable
}

// NewThemeStore wraps a Redis client.
func NewThemeStore(rdb redis.Cmdable) *ThemeStore {
	return &ThemeStore{rdb: rdb}
}

// Get implements theme.BlobStore.
func (s *ThemeStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, theme.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, nil
}

// Set implements theme.BlobStore. Keys never expire.
func (s *ThemeStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

var _ theme.BlobStore = (*ThemeStore)(nil)
