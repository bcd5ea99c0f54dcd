package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/containerd/errdefs"
	"go.etcd.io/bbolt"
	"templater/internal/domain"
	"templater/internal/port"
)

var (
	bucketUnits   = []byte("units")
	bucketOutputs = []byte("outputs")
	bucketMeta    = []byte("meta")
)

// BoltStore is the generation manifest: one JSON record per source unit,
// keyed by qualified name, plus an output path index.
type BoltStore struct {
	db *bbolt.DB
}

var _ port.Manifest = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketUnits, bucketOutputs, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(qualifiedName string) (domain.ManifestEntry, error) {
	var entry domain.ManifestEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUnits).Get([]byte(qualifiedName))
		if data == nil {
			return fmt.Errorf("manifest entry %s: %w", qualifiedName, errdefs.ErrNotFound)
		}
		return json.Unmarshal(data, &entry)
	})
	return entry, err
}

// FindByOutput returns the entry whose generated unit lives at path.
func (s *BoltStore) FindByOutput(path string) (domain.ManifestEntry, error) {
	var name []byte
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketOutputs).Get([]byte(path)); v != nil {
			name = append([]byte(nil), v...)
		}
		return nil
	})
	if name == nil {
		return domain.ManifestEntry{}, fmt.Errorf("output %s: %w", path, errdefs.ErrNotFound)
	}
	return s.Get(string(name))
}

func (s *BoltStore) Put(entry domain.ManifestEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		units := tx.Bucket(bucketUnits)
		outputs := tx.Bucket(bucketOutputs)

		if old := units.Get([]byte(entry.QualifiedName)); old != nil {
			var prev domain.ManifestEntry
			if err := json.Unmarshal(old, &prev); err == nil && prev.OutputPath != entry.OutputPath {
				if err := outputs.Delete([]byte(prev.OutputPath)); err != nil {
					return err
				}
			}
		}

		if err := units.Put([]byte(entry.QualifiedName), data); err != nil {
			return err
		}
		if entry.OutputPath == "" {
			return nil
		}
		return outputs.Put([]byte(entry.OutputPath), []byte(entry.QualifiedName))
	})
}

func (s *BoltStore) Delete(qualifiedName string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		units := tx.Bucket(bucketUnits)
		data := units.Get([]byte(qualifiedName))
		if data == nil {
			return nil
		}
		var entry domain.ManifestEntry
		if err := json.Unmarshal(data, &entry); err == nil && entry.OutputPath != "" {
			if err := tx.Bucket(bucketOutputs).Delete([]byte(entry.OutputPath)); err != nil {
				return err
			}
		}
		return units.Delete([]byte(qualifiedName))
	})
}

// List returns all entries ordered by qualified name.
func (s *BoltStore) List() ([]domain.ManifestEntry, error) {
	var entries []domain.ManifestEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUnits).ForEach(func(k, v []byte) error {
			var entry domain.ManifestEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("manifest entry %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].QualifiedName < entries[j].QualifiedName
	})
	return entries, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
