package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/types"
)

const badgerKeyPrefix = "sentiment:"

// Badger persists assessments in an embedded badger database. Expiry is
// delegated to badger's per-entry TTL.
type Badger struct {
	db  *badger.DB
	ttl time.Duration
}

var _ interfaces.SentimentCache = (*Badger)(nil)

// OpenBadger opens (or creates) the database under dir.
func OpenBadger(dir string, ttl time.Duration) (*Badger, error) {
	if dir == "" {
		return nil, errors.New("badger cache: directory required")
	}
	return openBadger(badger.DefaultOptions(dir), ttl)
}

func openBadger(opts badger.Options, ttl time.Duration) (*Badger, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("badger cache open: %w", err)
	}
	return &Badger{db: db, ttl: ttl}, nil
}

func (b *Badger) Get(_ context.Context, key string) (types.SentimentAssessment, bool, error) {
	var sa types.SentimentAssessment
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sa)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return types.SentimentAssessment{}, false, nil
	}
	if err != nil {
		return types.SentimentAssessment{}, false, fmt.Errorf("badger cache get: %w", err)
	}
	return sa, true, nil
}

func (b *Badger) Put(_ context.Context, key string, sa types.SentimentAssessment) error {
	sa.Cached = false
	data, err := json.Marshal(sa)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), data)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}
		return txn.SetEntry(e)
	})
}

func (b *Badger) Clear(context.Context) error {
	return b.db.DropPrefix([]byte(badgerKeyPrefix))
}

func (b *Badger) Close() error {
	return b.db.Close()
}
