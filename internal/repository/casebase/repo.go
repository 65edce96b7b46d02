// Package casebase persists a loaded case base as a Redis snapshot, so the
// service can start without the source CSV. The snapshot is the case data
// only; scores are never stored.
package casebase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cinecase/cinecase/internal/db"
	"github.com/cinecase/cinecase/internal/domain"
	domcase "github.com/cinecase/cinecase/internal/domain/casebase"
)

// store is the consumer interface for snapshots (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo stores case base snapshots: one hash per case, keyed by insertion
// index so the base order survives the round-trip, plus a count key.
type Repo struct {
	store  store
	prefix string
}

// New creates a snapshot repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) caseKey(i int) string { return fmt.Sprintf("%scase:%d", r.prefix, i) }
func (r *Repo) countKey() string     { return r.prefix + "case_count" }

// Save replaces the stored snapshot with the given base.
func (r *Repo) Save(ctx context.Context, base domcase.Base) error {
	stale, err := r.store.Scan(ctx, r.prefix+"case:*")
	if err != nil {
		return fmt.Errorf("scan stale snapshot: %w", err)
	}
	if len(stale) > 0 {
		if err := r.store.Del(ctx, stale...); err != nil {
			return fmt.Errorf("clear stale snapshot: %w", err)
		}
	}

	items := make([]db.HashSetItem, base.Len())
	for i := 0; i < base.Len(); i++ {
		items[i] = db.HashSetItem{
			Key:    r.caseKey(i),
			Fields: recordToHash(base.At(i)),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := r.store.Set(ctx, r.countKey(), []byte(strconv.Itoa(base.Len()))); err != nil {
		return fmt.Errorf("write snapshot count: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. Returns domain.ErrSnapshotNotFound when no
// snapshot has been saved.
func (r *Repo) Load(ctx context.Context) (domcase.Base, error) {
	raw, err := r.store.Get(ctx, r.countKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcase.Base{}, domain.ErrSnapshotNotFound
		}
		return domcase.Base{}, fmt.Errorf("read snapshot count: %w", err)
	}
	count, err := strconv.Atoi(string(raw))
	if err != nil {
		return domcase.Base{}, fmt.Errorf("parse snapshot count %q: %w", raw, err)
	}
	if count == 0 {
		return domcase.NewBase(nil), nil
	}

	keys := make([]string, count)
	for i := range keys {
		keys[i] = r.caseKey(i)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return domcase.Base{}, fmt.Errorf("read snapshot: %w", err)
	}

	records := make([]domcase.Record, 0, count)
	for i, h := range hashes {
		if len(h) == 0 {
			return domcase.Base{}, fmt.Errorf("snapshot hole at %s", keys[i])
		}
		rec, err := recordFromHash(h)
		if err != nil {
			return domcase.Base{}, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		records = append(records, rec)
	}
	return domcase.NewBase(records), nil
}
