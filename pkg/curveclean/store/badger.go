package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var _ Store = (*Badger)(nil)

// Key prefixes separating scalars from lists inside one badger keyspace.
const (
	badgerScalarPrefix = "s/"
	badgerListPrefix   = "l/"
)

// Badger is an embedded single-node Store. Lists are kept as one JSON array
// per key and rewritten on push.
type Badger struct {
	db *badger.DB
}

// NewBadger opens a badger database in cfg.Dir, or in memory.
func NewBadger(cfg BadgerConfig) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// Get implements Store.
func (b *Badger) Get(_ context.Context, key string) (string, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerScalarPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SetMany implements Store.
func (b *Badger) SetMany(_ context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for k, v := range values {
			if err := txn.Set([]byte(badgerScalarPrefix+k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Range implements Store.
func (b *Badger) Range(_ context.Context, key string, start, stop int64) ([]string, error) {
	var items []string
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		items, err = readList(txn, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	lo, hi, ok := rangeBounds(int64(len(items)), start, stop)
	if !ok {
		return []string{}, nil
	}
	return items[lo:hi], nil
}

// Push implements Store.
func (b *Badger) Push(_ context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	return b.db.Update(func(txn *badger.Txn) error {
		items, err := readList(txn, key)
		if err != nil {
			return err
		}
		data, err := json.Marshal(append(items, values...))
		if err != nil {
			return err
		}
		return txn.Set([]byte(badgerListPrefix+key), data)
	})
}

// Delete implements Store.
func (b *Badger) Delete(_ context.Context, keys ...string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete([]byte(badgerScalarPrefix + k)); err != nil {
				return err
			}
			if err := txn.Delete([]byte(badgerListPrefix + k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements Store.
func (b *Badger) Close() error {
	return b.db.Close()
}

// readList decodes the list at key, empty when absent.
func readList(txn *badger.Txn, key string) ([]string, error) {
	item, err := txn.Get([]byte(badgerListPrefix + key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &items)
	})
	if err != nil {
		return nil, fmt.Errorf("corrupt list at %s: %w", key, err)
	}
	return items, nil
}
