package storage

import (
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

// Key prefixes (column families simulated in one keyspace)
const (
	prefixRecords  = "rec:" // txid -> audit record JSON
	prefixByHeight = "hgt:" // zero-padded height + txid -> txid
)

// DB wraps the Pebble database holding audit history
type DB struct {
	db *pebble.DB
}

// Open opens the audit database at path, creating it if needed
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) put(key, value []byte) error {
	return d.db.Set(key, value, pebble.Sync)
}

// get returns nil with no error when the key is absent.
func (d *DB) get(key []byte) ([]byte, error) {
	value, closer, err := d.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	// Copy the value since it's only valid until closer.Close()
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// scan iterates keys in [lower, upper), invoking fn with each value.
func (d *DB) scan(lower, upper []byte, fn func(key, value []byte) error) error {
	iter, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
