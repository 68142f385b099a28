package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/settings"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	// Address is the Redis server address (e.g., "localhost:6379")
	Address  string
	Password string
	Database int

	// Prefix is prepended to all keys
	Prefix string

	// TTL is the time-to-live of cached attributes (0 = no expiration)
	TTL time.Duration

	// Timeout for Redis operations
	Timeout time.Duration
}

func DefaultRedisConfig(address string) RedisConfig {
	return RedisConfig{
		Address: address,
		Prefix:  "pprework:attribs:",
		TTL:     7 * 24 * time.Hour,
		Timeout: 5 * time.Second,
	}
}

func RedisConfigFrom(config settings.CacheConfig) RedisConfig {
	redisConfig := DefaultRedisConfig(config.RedisAddress)
	redisConfig.Password = config.RedisPassword
	redisConfig.Database = config.RedisDB
	redisConfig.TTL = config.RedisTTL

	if config.RedisPrefix != "" {
		redisConfig.Prefix = config.RedisPrefix
	}

	if config.Timeout > 0 {
		redisConfig.Timeout = config.Timeout
	}

	return redisConfig
}

// RedisStore keeps attributes of a key in a hash of attribute id -> value
type RedisStore struct {
	cfg    RedisConfig
	client *redis.Client
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		cfg:    cfg,
		client: client,
	}, nil
}

func (s *RedisStore) key(key Key) string {
	return s.cfg.Prefix + key.String()
}

func (s *RedisStore) Get(ctx context.Context, key Key) (api.Attributes, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return api.Attributes{}, fmt.Errorf("failed to load attributes from Redis: %w", err)
	}

	if len(fields) == 0 {
		return api.Attributes{}, ErrNotFound
	}

	values, err := decodeFields(fields)
	if err != nil {
		return api.Attributes{}, err
	}

	return api.FromDatabaseAttributes(values), nil
}

func (s *RedisStore) Put(ctx context.Context, key Key, attribs api.Attributes) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	redisKey := s.key(key)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, redisKey)
	pipe.HSet(ctx, redisKey, encodeFields(api.ToDatabaseAttributes(attribs)))

	if s.cfg.TTL > 0 {
		pipe.Expire(ctx, redisKey, s.cfg.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save attributes to Redis: %w", err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func encodeFields(values map[int]float64) map[string]any {
	fields := make(map[string]any, len(values))
	for id, value := range values {
		fields[strconv.Itoa(id)] = strconv.FormatFloat(value, 'g', -1, 64)
	}

	return fields
}

func decodeFields(fields map[string]string) (map[int]float64, error) {
	values := make(map[int]float64, len(fields))

	for field, raw := range fields {
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid attribute id %q: %w", field, err)
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value of attribute %d: %w", id, err)
		}

		values[id] = value
	}

	return values, nil
}
