// Package dictionary provides database operations for dictionary entries
// and their definitions.
//
// # Usage
//
//	repo := dictionary.NewRepository(db)
//	rows, err := repo.Lookup(ctx, "いぬ")
//
// Imports run inside a transaction; use WithTx to bind a repository to it.
package dictionary

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/lexreader/internal/entities"
)

// Row is one entry joined to one of its definitions.
type Row struct {
	EntryID      uint   `json:"entry_id"`
	Word         string `json:"word"`
	Reading      string `json:"reading"`
	DefinitionID uint   `json:"definition_id"`
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
}

// Repository handles dictionary database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new dictionary repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository that issues every statement on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// InsertEntry inserts the (word, reading) pair unless it already exists
// and returns the id of the stored row. created is false when the pair
// was already present.
func (r *Repository) InsertEntry(ctx context.Context, entry *entities.DictionaryEntry) (uint, bool, error) {
	db := r.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	if result.Error != nil {
		return 0, false, fmt.Errorf("insert entry %q: %w", entry.Word, result.Error)
	}
	if result.RowsAffected > 0 {
		return entry.ID, true, nil
	}

	var existing entities.DictionaryEntry
	err := db.Select("id").
		Where("word = ? AND reading = ?", entry.Word, entry.Reading).
		Take(&existing).Error
	if err != nil {
		return 0, false, fmt.Errorf("find entry %q: %w", entry.Word, err)
	}
	return existing.ID, false, nil
}

// InsertDefinition stores def unless the entry already has an identical
// definition. created reports whether a row was written.
func (r *Repository) InsertDefinition(ctx context.Context, def *entities.Definition) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(def)
	if result.Error != nil {
		return false, fmt.Errorf("insert definition for entry %d: %w", def.EntryID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Lookup returns every definition whose entry word or reading equals
// token, ordered by entry then definition.
func (r *Repository) Lookup(ctx context.Context, token string) ([]Row, error) {
	var rows []Row
	err := r.db.WithContext(ctx).
		Table("entries").
		Select("entries.id AS entry_id, entries.word, entries.reading, " +
			"definitions.id AS definition_id, definitions.part_of_speech, definitions.definition").
		Joins("JOIN definitions ON definitions.entry_id = entries.id").
		Where("entries.word = ? OR entries.reading = ?", token, token).
		Order("entries.id ASC, definitions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetEntry returns an entry with its definitions.
func (r *Repository) GetEntry(ctx context.Context, word, reading string) (*entities.DictionaryEntry, error) {
	var entry entities.DictionaryEntry
	err := r.db.WithContext(ctx).
		Preload("Definitions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("word = ? AND reading = ?", word, reading).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Stats holds row counts of the dictionary tables.
type Stats struct {
	Entries     int64 `json:"entries"`
	Definitions int64 `json:"definitions"`
}

// Stats counts entries and definitions.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := r.db.WithContext(ctx)
	if err := db.Model(&entities.DictionaryEntry{}).Count(&s.Entries).Error; err != nil {
		return s, err
	}
	if err := db.Model(&entities.Definition{}).Count(&s.Definitions).Error; err != nil {
		return s, err
	}
	return s, nil
}
