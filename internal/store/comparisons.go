package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kilupskalvis/apdiff/internal/models"
	bolt "go.etcd.io/bbolt"
)

// LastComparisonKey holds the ID of the most recently saved comparison.
const LastComparisonKey = "LAST_COMPARISON"

var (
	// ErrNotFound is returned when no comparison matches an ID or prefix.
	ErrNotFound = errors.New("comparison not found")
	// ErrAmbiguousID is returned when a prefix matches more than one comparison.
	ErrAmbiguousID = errors.New("ambiguous comparison id")
)

// SaveComparison stores a comparison result under its ID.
func (s *Store) SaveComparison(res *models.ComparisonResult) error {
	if res.ID == "" {
		return fmt.Errorf("comparison has no id")
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal comparison: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketComparisons)
		if bucket == nil {
			return fmt.Errorf("comparisons bucket not found")
		}
		if err := bucket.Put([]byte(res.ID), data); err != nil {
			return err
		}
		return tx.Bucket(bucketKV).Put([]byte(LastComparisonKey), []byte(res.ID))
	})
}

// GetComparison retrieves a comparison by full ID or unique ID prefix.
func (s *Store) GetComparison(idOrPrefix string) (*models.ComparisonResult, error) {
	if idOrPrefix == "" {
		return nil, ErrNotFound
	}

	var res *models.ComparisonResult
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketComparisons)
		if bucket == nil {
			return ErrNotFound
		}

		data := bucket.Get([]byte(idOrPrefix))
		if data == nil {
			prefix := []byte(idOrPrefix)
			c := bucket.Cursor()
			var matches int
			for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
				matches++
				data = v
			}
			switch {
			case matches == 0:
				return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
			case matches > 1:
				return fmt.Errorf("%w: %s matches %d comparisons", ErrAmbiguousID, idOrPrefix, matches)
			}
		}

		res = &models.ComparisonResult{}
		if err := json.Unmarshal(data, res); err != nil {
			return fmt.Errorf("unmarshal comparison: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListComparisons returns summaries of stored comparisons, newest first.
// A limit of zero or less returns all of them.
func (s *Store) ListComparisons(limit int) ([]*models.ComparisonRecord, error) {
	var records []*models.ComparisonRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketComparisons)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var res models.ComparisonResult
			if err := json.Unmarshal(v, &res); err != nil {
				return fmt.Errorf("unmarshal comparison %s: %w", k, err)
			}
			records = append(records, &models.ComparisonRecord{
				ID:           res.ID,
				OldProject:   res.OldProject,
				NewProject:   res.NewProject,
				Timestamp:    res.Timestamp,
				TotalChanges: res.TotalChanges(),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID < records[j].ID
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// DeleteComparison removes a comparison by full ID.
func (s *Store) DeleteComparison(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketComparisons)
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return err
		}

		kv := tx.Bucket(bucketKV)
		if string(kv.Get([]byte(LastComparisonKey))) == id {
			return kv.Delete([]byte(LastComparisonKey))
		}
		return nil
	})
}
