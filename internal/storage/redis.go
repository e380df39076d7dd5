package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xaenox/copilot-bot/internal/models"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, e.g. "copilot".
	Prefix string
}

// RedisStorage keeps records in one hash keyed by exchange id and a list of
// ids per user, newest at the head. Re-saving an id under another user moves
// it to the head of that user's list.
type RedisStorage struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisStorage(ctx context.Context, config RedisConfig, logger *zap.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", config.Addr), zap.Int("db", config.DB))
	return NewRedisStorageFromClient(client, config.Prefix, logger), nil
}

func NewRedisStorageFromClient(client *redis.Client, prefix string, logger *zap.Logger) *RedisStorage {
	if prefix == "" {
		prefix = "copilot"
	}
	return &RedisStorage{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStorage) recordsKey() string {
	return s.prefix + ":exchanges"
}

func (s *RedisStorage) userKey(userID int64) string {
	return s.prefix + ":user:" + strconv.FormatInt(userID, 10)
}

func (s *RedisStorage) SaveExchange(ctx context.Context, exchange *models.Exchange) error {
	if exchange.ID == "" {
		return fmt.Errorf("exchange id is required")
	}
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now()
	}

	data, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("error encoding exchange: %w", err)
	}

	prevUser, found, err := s.storedUser(ctx, exchange.ID)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.recordsKey(), exchange.ID, data)
		if found && prevUser == exchange.UserID {
			return nil
		}
		if found {
			pipe.LRem(ctx, s.userKey(prevUser), 0, exchange.ID)
		}
		pipe.LPush(ctx, s.userKey(exchange.UserID), exchange.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error saving exchange: %w", err)
	}
	return nil
}

// storedUser returns the owner of an already stored exchange.
func (s *RedisStorage) storedUser(ctx context.Context, id string) (int64, bool, error) {
	raw, err := s.client.HGet(ctx, s.recordsKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error loading exchange %s: %w", id, err)
	}
	var prev models.Exchange
	if err := json.Unmarshal([]byte(raw), &prev); err != nil {
		return 0, false, fmt.Errorf("error decoding exchange %s: %w", id, err)
	}
	return prev.UserID, true, nil
}

func (s *RedisStorage) GetUserExchanges(ctx context.Context, userID int64, limit, offset int) ([]*models.Exchange, error) {
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}

	ids, err := s.client.LRange(ctx, s.userKey(userID), int64(offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("error querying exchanges: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Exchange{}, nil
	}

	values, err := s.client.HMGet(ctx, s.recordsKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("error loading exchanges: %w", err)
	}

	exchanges := make([]*models.Exchange, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.logger.Warn("Exchange indexed but missing", zap.String("exchange_id", ids[i]))
			continue
		}
		var e models.Exchange
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("error decoding exchange %s: %w", ids[i], err)
		}
		exchanges = append(exchanges, &e)
	}
	return exchanges, nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
