package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/jacksmith/storefront/internal/model"
	"github.com/jacksmith/storefront/internal/observability"
)

// corruptSuffix is appended to a key to hold the raw bytes of a
// collection that failed to decode before it is overwritten.
const corruptSuffix = ".corrupt"

var (
	// ErrCorrupt is returned when a stored collection cannot be decoded.
	ErrCorrupt = errors.New("stored collection is corrupt")

	// ErrConflict is returned by CompareAndSwap when the collection changed
	// since the snapshot was taken.
	ErrConflict = errors.New("collection changed since it was read")
)

// CorruptError describes a collection that failed to decode.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%q: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorrupt, e.Err}
}

// Snapshot is a collection together with the version it was read at.
// Version is 0 when the collection is absent.
type Snapshot[T model.Record] struct {
	Records []T
	Version uint64
	Found   bool
}

func version(raw string) uint64 {
	return xxhash.Sum64String(raw)
}

func decode[T model.Record](key, raw string) ([]T, error) {
	records, err := model.DecodeCollection[T](raw)
	if err != nil {
		return nil, &CorruptError{Key: key, Err: err}
	}
	return records, nil
}

// Load reads the collection under key. An absent key yields (nil, false, nil).
// A value that fails to decode yields an error matching ErrCorrupt.
func Load[T model.Record](ctx context.Context, s *Storage, key string) (records []T, found bool, err error) {
	ctx, span := s.inst.StartStoreOp(ctx, observability.OpLoad, key)
	defer func() { observability.EndSpan(span, err) }()

	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	records, err = decode[T](key, raw)
	if err != nil {
		s.inst.RecordCorruption(ctx, key)
		return nil, true, err
	}
	return records, true, nil
}

// LoadSnapshot reads the collection under key along with its version.
func LoadSnapshot[T model.Record](ctx context.Context, s *Storage, key string) (snap Snapshot[T], err error) {
	ctx, span := s.inst.StartStoreOp(ctx, observability.OpLoad, key)
	defer func() { observability.EndSpan(span, err) }()

	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil || !ok {
		return Snapshot[T]{}, err
	}
	records, err := decode[T](key, raw)
	if err != nil {
		s.inst.RecordCorruption(ctx, key)
		return Snapshot[T]{Version: version(raw), Found: true}, err
	}
	return Snapshot[T]{Records: records, Version: version(raw), Found: true}, nil
}

// Save replaces the collection under key with records.
func Save[T model.Record](ctx context.Context, s *Storage, key string, records []T) (err error) {
	ctx, span := s.inst.StartStoreOp(ctx, observability.OpSave, key)
	defer func() { observability.EndSpan(span, err) }()

	unlock, err := s.lockKey(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	return write(ctx, s, key, records)
}

// SeedIfAbsent writes defaults under key only when the key has never been
// written. It reports whether it wrote. An existing value is never
// replaced, even an empty or corrupt one.
func SeedIfAbsent[T model.Record](ctx context.Context, s *Storage, key string, defaults []T) (seeded bool, err error) {
	ctx, span := s.inst.StartStoreOp(ctx, observability.OpSeed, key)
	defer func() { observability.EndSpan(span, err) }()

	unlock, err := s.lockKey(ctx, key)
	if err != nil {
		return false, err
	}
	defer unlock()

	_, ok, err := s.kv.GetItem(ctx, key)
	if err != nil || ok {
		return false, err
	}
	if err := write(ctx, s, key, defaults); err != nil {
		return false, err
	}
	s.logger.Debug("seeded collection", "key", key, "records", len(defaults))
	return true, nil
}

// Mutate applies fn to the collection under key and writes the result.
// Mutations on the same key are serialized, so concurrent callers never
// lose each other's updates. An absent collection is passed to fn as
// empty. A corrupt collection is backed up under key+".corrupt" and also
// passed as empty. If fn returns an error nothing is written.
func Mutate[T model.Record](ctx context.Context, s *Storage, key string, fn func([]T) ([]T, error)) (result []T, err error) {
	ctx, span := s.inst.StartStoreOp(ctx, observability.OpMutate, key)
	defer func() { observability.EndSpan(span, err) }()

	unlock, err := s.lockKey(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := readForWrite[T](ctx, s, key)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := write(ctx, s, key, next); err != nil {
		return nil, err
	}
	return next, nil
}

// CompareAndSwap writes records under key only if the stored collection
// still has the given version. It returns ErrConflict otherwise.
func CompareAndSwap[T model.Record](ctx context.Context, s *Storage, key string, expected uint64, records []T) (err error) {
	ctx, span := s.inst.StartStoreOp(ctx, observability.OpCAS, key)
	defer func() { observability.EndSpan(span, err) }()

	unlock, err := s.lockKey(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		return err
	}
	var current uint64
	if ok {
		current = version(raw)
	}
	if current != expected {
		s.inst.RecordConflict(ctx, key)
		return fmt.Errorf("%s: %w", key, ErrConflict)
	}
	return write(ctx, s, key, records)
}

// readForWrite loads a collection ahead of a write. Callers hold the key
// lock. Corrupt bytes are preserved under a fresh backup key (see
// backupKey) and the collection is treated as empty.
func readForWrite[T model.Record](ctx context.Context, s *Storage, key string) ([]T, error) {
	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	records, err := decode[T](key, raw)
	if err == nil {
		return records, nil
	}

	s.inst.RecordCorruption(ctx, key)
	backup, berr := backupKey(ctx, s, key)
	if berr != nil {
		return nil, berr
	}
	if berr := s.kv.SetItem(ctx, backup, raw); berr != nil {
		return nil, fmt.Errorf("failed to back up corrupt %q: %w", key, berr)
	}
	s.logger.Warn("replacing corrupt collection", "key", key, "backup", backup, "error", err)
	return []T{}, nil
}

// backupKey returns the first unused of key+".corrupt", key+".corrupt.1",
// key+".corrupt.2" and so on, so earlier backups are never overwritten.
func backupKey(ctx context.Context, s *Storage, key string) (string, error) {
	base := key + corruptSuffix
	candidate := base
	for i := 1; ; i++ {
		_, exists, err := s.kv.GetItem(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s.%d", base, i)
	}
}

func write[T model.Record](ctx context.Context, s *Storage, key string, records []T) error {
	raw, err := model.EncodeCollection(records)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.kv.SetItem(ctx, key, raw); err != nil {
		return err
	}
	s.inst.RecordWrite(ctx, key, len(records))
	return nil
}
