package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config selects and configures a store backend.
type Config struct {
	// Backend is one of redis, badger, sqlite, memory.
	Backend string       `yaml:"backend"`
	Redis   RedisConfig  `yaml:"redis"`
	Badger  BadgerConfig `yaml:"badger"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BadgerConfig configures the badger backend.
type BadgerConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Open creates the configured backend wrapped with metrics.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendRedis, "":
		s, err = NewRedis(ctx, cfg.Redis)
	case BackendBadger:
		s, err = NewBadger(cfg.Badger)
	case BackendSQLite:
		s, err = NewSQLite(cfg.SQLite)
	case BackendMemory:
		s = NewMemory()
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be redis, badger, sqlite, or memory)", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s), nil
}
