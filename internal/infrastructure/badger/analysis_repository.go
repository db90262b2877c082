package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/domain/model"
	"github.com/phonerisk/phonerisk/internal/domain/port"
)

var _ port.AnalysisRepository = (*AnalysisRepository)(nil)

// Key layout:
//
//	a/<id>                  analysis snapshot (JSON)
//	t/<analyzed_at>/<id>    time index, empty value
//	p/<e164>/<analyzed_at>/<id>  per-number time index, empty value
//
// analyzed_at is zero-padded Unix nanoseconds so keys sort chronologically.
const (
	analysisPrefix = "a/"
	timePrefix     = "t/"
	phonePrefix    = "p/"
	idLen          = 36
)

// AnalysisRepository implements port.AnalysisRepository on an embedded
// Badger database.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a Badger-backed analysis repository.
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func analysisKey(id uuid.UUID) []byte {
	return []byte(analysisPrefix + id.String())
}

func stamp(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

func timeKey(s model.AnalysisSnapshot) []byte {
	return []byte(timePrefix + stamp(s.AnalyzedAt) + "/" + s.ID.String())
}

func phoneIndexPrefix(phone string) string {
	return phonePrefix + phone + "/"
}

func phoneKey(s model.AnalysisSnapshot) []byte {
	return []byte(phoneIndexPrefix(s.Identity.Number.String()) + stamp(s.AnalyzedAt) + "/" + s.ID.String())
}

func idFromIndexKey(key []byte) (uuid.UUID, error) {
	if len(key) < idLen {
		return uuid.Nil, fmt.Errorf("malformed index key %q", key)
	}
	return uuid.Parse(string(key[len(key)-idLen:]))
}

// Save persists an analysis and its index entries.
func (r *AnalysisRepository) Save(_ context.Context, analysis *model.PhoneAnalysis) error {
	snap := analysis.Snapshot()
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		prev, err := loadSnapshot(txn, snap.ID)
		switch {
		case err == nil:
			if err := deleteIndexes(txn, prev); err != nil {
				return err
			}
		case !errors.Is(err, model.ErrAnalysisNotFound):
			return err
		}

		if err := txn.Set(analysisKey(snap.ID), doc); err != nil {
			return err
		}
		if err := txn.Set(timeKey(snap), nil); err != nil {
			return err
		}
		return txn.Set(phoneKey(snap), nil)
	})
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// FindByID retrieves an analysis by its identifier.
func (r *AnalysisRepository) FindByID(_ context.Context, id uuid.UUID) (*model.PhoneAnalysis, error) {
	var snap model.AnalysisSnapshot
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		snap, err = loadSnapshot(txn, id)
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrAnalysisNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return model.ReconstructPhoneAnalysis(snap), nil
}

// FindLatestByPhone returns the newest analysis of phone at or after since,
// or nil.
func (r *AnalysisRepository) FindLatestByPhone(_ context.Context, phone string, since time.Time) (*model.PhoneAnalysis, error) {
	var found *model.PhoneAnalysis
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(phoneIndexPrefix(phone))
		it := txn.NewIterator(reverseKeysOnly(prefix))
		defer it.Close()

		it.Seek(seekLast(prefix))
		if !it.ValidForPrefix(prefix) {
			return nil
		}

		key := it.Item().KeyCopy(nil)
		if string(key[len(prefix):len(prefix)+20]) < stamp(since) {
			return nil
		}

		id, err := idFromIndexKey(key)
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(txn, id)
		if err != nil {
			return err
		}
		found = model.ReconstructPhoneAnalysis(snap)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find latest analysis: %w", err)
	}
	return found, nil
}

// List returns one page of analyses, newest first, plus the total count.
func (r *AnalysisRepository) List(_ context.Context, limit, offset int) ([]*model.PhoneAnalysis, int, error) {
	analyses := make([]*model.PhoneAnalysis, 0, max(limit, 0))
	total := 0

	err := r.db.View(func(txn *badger.Txn) error {
		return scanNewestFirst(txn, func(id uuid.UUID) (bool, error) {
			total++
			if total <= offset || len(analyses) >= limit {
				return true, nil
			}
			snap, err := loadSnapshot(txn, id)
			if err != nil {
				return false, err
			}
			analyses = append(analyses, model.ReconstructPhoneAnalysis(snap))
			return true, nil
		})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, total, nil
}

// Search filters by phone substring and risk level, newest first.
func (r *AnalysisRepository) Search(_ context.Context, criteria model.SearchCriteria) ([]*model.PhoneAnalysis, error) {
	results := make([]*model.PhoneAnalysis, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		return scanNewestFirst(txn, func(id uuid.UUID) (bool, error) {
			snap, err := loadSnapshot(txn, id)
			if err != nil {
				return false, err
			}
			if criteria.PhoneContains != "" && !strings.Contains(snap.Identity.Number.String(), criteria.PhoneContains) {
				return true, nil
			}
			if !criteria.RiskLevel.IsZero() && !snap.RiskLevel.Equal(criteria.RiskLevel) {
				return true, nil
			}
			results = append(results, model.ReconstructPhoneAnalysis(snap))
			return criteria.Limit <= 0 || len(results) < criteria.Limit, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search analyses: %w", err)
	}
	return results, nil
}

// Delete removes one analysis and its index entries.
func (r *AnalysisRepository) Delete(_ context.Context, id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		snap, err := loadSnapshot(txn, id)
		if err != nil {
			return err
		}
		if err := deleteIndexes(txn, snap); err != nil {
			return err
		}
		return txn.Delete(analysisKey(id))
	})
	if err != nil {
		if errors.Is(err, model.ErrAnalysisNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

// DeleteAll removes every analysis.
func (r *AnalysisRepository) DeleteAll(_ context.Context) (int, error) {
	n := 0
	err := r.db.View(func(txn *badger.Txn) error {
		return scanNewestFirst(txn, func(uuid.UUID) (bool, error) {
			n++
			return true, nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	if err := r.db.DropPrefix([]byte(analysisPrefix), []byte(timePrefix), []byte(phonePrefix)); err != nil {
		return 0, fmt.Errorf("failed to delete analyses: %w", err)
	}
	return n, nil
}

// Statistics counts analyses per level and averages their scores.
func (r *AnalysisRepository) Statistics(_ context.Context) (model.Statistics, error) {
	stats := model.Statistics{ByLevel: map[string]int{}}
	var sum float64

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(analysisPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var snap model.AnalysisSnapshot
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &snap) }); err != nil {
				return fmt.Errorf("failed to decode analysis: %w", err)
			}
			stats.ByLevel[snap.RiskLevel.String()]++
			stats.Total++
			sum += snap.RiskScore
		}
		return nil
	})
	if err != nil {
		return model.Statistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	stats.AverageScore = model.AverageScore(sum, stats.Total)
	return stats, nil
}

func loadSnapshot(txn *badger.Txn, id uuid.UUID) (model.AnalysisSnapshot, error) {
	var snap model.AnalysisSnapshot
	item, err := txn.Get(analysisKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return snap, model.ErrAnalysisNotFound
		}
		return snap, err
	}
	err = item.Value(func(v []byte) error { return json.Unmarshal(v, &snap) })
	if err != nil {
		return snap, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return snap, nil
}

func deleteIndexes(txn *badger.Txn, s model.AnalysisSnapshot) error {
	if err := txn.Delete(timeKey(s)); err != nil {
		return err
	}
	return txn.Delete(phoneKey(s))
}

// scanNewestFirst walks the time index from the newest entry until fn
// returns false.
func scanNewestFirst(txn *badger.Txn, fn func(id uuid.UUID) (bool, error)) error {
	prefix := []byte(timePrefix)
	it := txn.NewIterator(reverseKeysOnly(prefix))
	defer it.Close()

	for it.Seek(seekLast(prefix)); it.ValidForPrefix(prefix); it.Next() {
		id, err := idFromIndexKey(it.Item().Key())
		if err != nil {
			return err
		}
		more, err := fn(id)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

func reverseKeysOnly(prefix []byte) badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	opts.Prefix = prefix
	return opts
}

// seekLast positions a reverse iterator on the last key under prefix.
func seekLast(prefix []byte) []byte {
	return append(append([]byte(nil), prefix...), 0xFF)
}
