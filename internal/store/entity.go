package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any record type.
//
// Records are stored as JSON under prefix+id. Secondary indexes live under
// prefix+"idx:"+name+":"... keys. Unique indexes map one value to one id;
// multi indexes allow many ids per value and are read back with ListByIndex.
type Entity[T any] struct {
	store   *BadgerStore
	prefix  string
	indexes []Index[T]
}

// Index defines a secondary index on an entity.
type Index[T any] struct {
	name            string
	unique          bool
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *BadgerStore, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithUniqueIndex adds a unique secondary index to the entity.
// Create and Update fail with ErrAlreadyExists when another record already
// holds one of the generated values.
func (e *Entity[T]) WithUniqueIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		unique: true,
		keyGen: keyGen,
	})
	return e
}

// WithUniqueIndexTransform adds a unique secondary index with lookup
// transformation. The lookupTransform function is applied to search values
// before index lookup, enabling case-insensitive searches, normalization, etc.
func (e *Entity[T]) WithUniqueIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		unique:          true,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

// WithIndex adds a non-unique secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

func (e *Entity[T]) uniqueIndexKey(name, value string) string {
	return e.prefix + "idx:" + name + ":" + value
}

func (e *Entity[T]) multiIndexKey(name, value, id string) string {
	return e.prefix + "idx:" + name + ":" + value + ":" + id
}

// setIndexKeys writes all index entries for the record inside txn.
func (e *Entity[T]) setIndexKeys(txn *badger.Txn, id string, record *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(record) {
			if idx.unique {
				if err := txn.Set([]byte(e.uniqueIndexKey(idx.name, value)), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			} else {
				if err := txn.Set([]byte(e.multiIndexKey(idx.name, value, id)), nil); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}
	}
	return nil
}

// deleteIndexKeys removes all index entries for the record inside txn.
func (e *Entity[T]) deleteIndexKeys(txn *badger.Txn, id string, record *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(record) {
			var key string
			if idx.unique {
				key = e.uniqueIndexKey(idx.name, value)
			} else {
				key = e.multiIndexKey(idx.name, value, id)
			}
			if err := txn.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	return nil
}

// checkUniqueConflicts returns ErrAlreadyExists if any unique index value is
// already taken by a record other than id.
func (e *Entity[T]) checkUniqueConflicts(txn *badger.Txn, id string, record *T) error {
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		for _, value := range idx.keyGen(record) {
			item, err := txn.Get([]byte(e.uniqueIndexKey(idx.name, value)))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to check index key: %w", err)
			}

			var existing string
			if err := item.Value(func(val []byte) error {
				existing = string(val)
				return nil
			}); err != nil {
				return err
			}
			if existing != id {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, value, ErrAlreadyExists)
			}
		}
	}
	return nil
}

// Create creates a new record with the given ID.
// Returns ErrAlreadyExists if a record with this ID or a conflicting unique
// index value already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.createInTxn(txn, id, record)
	})
}

// createInTxn performs the Create inside an existing transaction, letting
// callers batch several creates atomically.
func (e *Entity[T]) createInTxn(txn *badger.Txn, id string, record *T) error {
	key := e.prefix + id

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = txn.Get([]byte(key))
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to check existing key: %w", err)
	}

	if err := e.checkUniqueConflicts(txn, id, record); err != nil {
		return err
	}

	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	return e.setIndexKeys(txn, id, record)
}

// Get retrieves a record by ID.
// Returns ErrNotFound if the record does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var record T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByIndex retrieves a record by unique secondary index.
// If the index has a lookup transform, it will be applied to the value first.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformedValue := value
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			transformedValue = idx.lookupTransform(value)
			break
		}
	}

	indexKey := []byte(e.uniqueIndexKey(indexName, transformedValue))

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// ListByIndex returns the IDs of all records whose non-unique index contains
// the given value.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(e.prefix + "idx:" + indexName + ":" + value + ":")
	var ids []string

	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(prefix):])
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Update updates an existing record.
// Returns ErrNotFound if the record does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		var oldRecord T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &oldRecord); err != nil {
				return fmt.Errorf("failed to unmarshal old record: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := e.checkUniqueConflicts(txn, id, record); err != nil {
			return err
		}

		if err := e.deleteIndexKeys(txn, id, &oldRecord); err != nil {
			return err
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		return e.setIndexKeys(txn, id, record)
	})
}

// Delete deletes a record by ID.
// This operation is idempotent - it does not return an error if the record
// does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	return e.store.db.Update(func(txn *badger.Txn) error {
		var record T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Idempotent - no error if doesn't exist
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := e.deleteIndexKeys(txn, id, &record); err != nil {
			return err
		}

		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}

		return nil
	})
}

// List returns an iterator over all records.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys
				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], "idx:") {
					continue
				}

				var record T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &record)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&record, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}
