package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/settings"
)

var ErrNotFound = errors.New("attributes not cached")

// Key identifies attributes of a beatmap under a set of mods, calculated by a given calculator version
type Key struct {
	Beatmap string
	Mods    difficulty.Modifier
	Version int
}

// NewKey masks mods so that score-only mods share the same entry
func NewKey(beatmap string, mods difficulty.Modifier, version int) Key {
	return Key{
		Beatmap: beatmap,
		Mods:    difficulty.GetDiffMaskedMods(mods),
		Version: version,
	}
}

func (key Key) String() string {
	return fmt.Sprintf("%s:%d:%d", key.Beatmap, int64(key.Mods), key.Version)
}

type AttributeStore interface {
	// Get returns ErrNotFound if the key is not stored
	Get(ctx context.Context, key Key) (api.Attributes, error)
	Put(ctx context.Context, key Key, attribs api.Attributes) error
	Close() error
}

// NewStore opens the store selected in config
func NewStore(config settings.CacheConfig) (AttributeStore, error) {
	switch config.Backend {
	case settings.CacheSQLite:
		return NewSQLiteStore(config.SQLitePath)
	case settings.CacheRedis:
		return NewRedisStore(RedisConfigFrom(config))
	case settings.CacheNone, "":
		return NopStore{}, nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", config.Backend)
}

// NopStore never stores anything
type NopStore struct{}

func (NopStore) Get(context.Context, Key) (api.Attributes, error) {
	return api.Attributes{}, ErrNotFound
}

func (NopStore) Put(context.Context, Key, api.Attributes) error {
	return nil
}

func (NopStore) Close() error {
	return nil
}

// GetOrCalculate returns cached attributes or calculates and stores them.
// Store failures are not fatal, attributes are still returned
func GetOrCalculate(ctx context.Context, store AttributeStore, key Key, calculate func() api.Attributes) (api.Attributes, bool, error) {
	attribs, err := store.Get(ctx, key)
	if err == nil {
		return attribs, true, nil
	}

	var storeErr error
	if !errors.Is(err, ErrNotFound) {
		storeErr = fmt.Errorf("failed to read cache: %w", err)
	}

	attribs = calculate()

	if err := store.Put(ctx, key, attribs); err != nil {
		storeErr = errors.Join(storeErr, fmt.Errorf("failed to write cache: %w", err))
	}

	return attribs, false, storeErr
}
