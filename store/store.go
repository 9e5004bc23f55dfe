package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Collection names for the five persisted record sequences.
const (
	CollectionUsers      = "users"
	CollectionSession    = "current_session"
	CollectionWorkspaces = "workspaces"
	CollectionPapers     = "papers"
	CollectionMessages   = "messages"
)

// Store maps collection names to JSON-serialized record sequences in a
// single embedded SQLite table. There is no partial-update primitive:
// callers load the full collection, transform in memory, and save the
// full replacement.
type Store struct {
	db *gorm.DB
}

type collectionRow struct {
	Name string `gorm:"primaryKey;size:64"`
	Data string `gorm:"type:text;not null"`
}

func (collectionRow) TableName() string { return "collections" }

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("migrate collections table failed: %w", err)
	}
	return &Store{db: db}, nil
}

// Load unmarshals the persisted sequence for a collection into out.
// A missing or malformed collection leaves out untouched and returns
// nil: corrupt data reads as empty rather than failing the caller.
func (s *Store) Load(collection string, out any) error {
	var row collectionRow
	if err := s.db.Where("name = ?", collection).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load collection %q failed: %w", collection, err)
	}

	data := []byte(row.Data)
	if !json.Valid(data) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return nil
}

// Save replaces the full persisted sequence for a collection.
func (s *Store) Save(collection string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal collection %q failed: %w", collection, err)
	}
	row := collectionRow{Name: collection, Data: string(data)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("save collection %q failed: %w", collection, err)
	}
	return nil
}

// Get reads a single-record collection (the session pointer). It
// reports whether a usable record was found; a corrupt record counts
// as absent.
func (s *Store) Get(collection string, out any) (bool, error) {
	var row collectionRow
	if err := s.db.Where("name = ?", collection).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get collection %q failed: %w", collection, err)
	}
	if err := json.Unmarshal([]byte(row.Data), out); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes a collection entirely. Deleting an absent collection
// is a no-op.
func (s *Store) Delete(collection string) error {
	if err := s.db.Where("name = ?", collection).Delete(&collectionRow{}).Error; err != nil {
		return fmt.Errorf("delete collection %q failed: %w", collection, err)
	}
	return nil
}

// Update runs fn against a transactional view of the store. Every
// Load/Save inside fn commits atomically or not at all.
func (s *Store) Update(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
