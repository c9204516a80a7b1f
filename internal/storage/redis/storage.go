package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmhart/chatroom-go/internal/model"
	"github.com/jmhart/chatroom-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	id, err := s.client.Incr(ctx, userIDCounterKey()).Result()
	if err != nil {
		return nil, err
	}

	stored := *user
	stored.ID = model.UserID(id)

	// Claim the username first so a concurrent registration for the same
	// name loses cleanly. The allocated ID is simply abandoned on conflict.
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(stored.Name), id, 0).Result()
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, model.ErrUsernameExists
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, userKey(stored.ID), data, 0).Err(); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(id))
}

// Message operations

func (s *Storage) CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	id, err := s.client.Incr(ctx, messageIDCounterKey()).Result()
	if err != nil {
		return nil, err
	}

	stored := *msg
	stored.ID = model.MessageID(id)

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, messageKey(stored.ID), data, 0)
	pipe.ZAdd(ctx, messageIndexKey(), redis.Z{
		Score:  float64(stored.CreatedAt.UnixMilli()),
		Member: strconv.FormatInt(id, 10),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (s *Storage) GetMessage(ctx context.Context, id model.MessageID) (*model.Message, error) {
	data, err := s.client.Get(ctx, messageKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMessageNotFound
		}
		return nil, err
	}

	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Storage) UpdateMessage(ctx context.Context, msg *model.Message) error {
	exists, err := s.client.Exists(ctx, messageKey(msg.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrMessageNotFound
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// CreatedAt is immutable, so the index score never changes on update
	return s.client.Set(ctx, messageKey(msg.ID), data, 0).Err()
}

func (s *Storage) DeleteMessage(ctx context.Context, id model.MessageID) error {
	exists, err := s.client.Exists(ctx, messageKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrMessageNotFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, messageKey(id))
	pipe.ZRem(ctx, messageIndexKey(), strconv.FormatInt(int64(id), 10))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListMessages(ctx context.Context, limit int) ([]*model.Message, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := s.client.ZRange(ctx, messageIndexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Message{}, nil
	}

	keys := make([]string, len(ids))
	for i, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		keys[i] = messageKey(model.MessageID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Row deleted between ZRANGE and MGET
		}
		var msg model.Message
		if err := json.Unmarshal([]byte(val.(string)), &msg); err != nil {
			continue // Skip invalid data
		}
		messages = append(messages, &msg)
	}

	// ZSET members with equal scores come back in lexical order; restore the
	// ID tiebreak the interface promises
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}
