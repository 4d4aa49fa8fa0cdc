package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisLocalCartStore はセッション1つぶんのゲストカートを
// cart:<sessionID> のJSON配列として保持する。
type RedisLocalCartStore struct {
	client    *redis.Client
	sessionID string
}

// DI
func NewRedisLocalCartStore(client *redis.Client, sessionID string) *RedisLocalCartStore {
	return &RedisLocalCartStore{
		client:    client,
		sessionID: sessionID,
	}
}

// 読み取り。無い・壊れている・Redisに届かない、はすべて空カート扱い。
func (s *RedisLocalCartStore) GetCart(ctx context.Context) []model.CartLine {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.CartLine{}
	}
	if err != nil {
		slog.Warn("guest cart read failed", "session_id", s.sessionID, "err", err)
		return []model.CartLine{}
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		slog.Warn("guest cart payload corrupt", "session_id", s.sessionID, "err", err)
		return []model.CartLine{}
	}
	if lines == nil {
		return []model.CartLine{}
	}
	return lines
}

// 全量上書き保存
func (s *RedisLocalCartStore) SaveCart(ctx context.Context, lines []model.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(), data, 0).Err()
}

// スロットごと削除
func (s *RedisLocalCartStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}

func (s *RedisLocalCartStore) SessionID() string {
	return s.sessionID
}

func (s *RedisLocalCartStore) key() string {
	return cartKeyPrefix + s.sessionID
}
