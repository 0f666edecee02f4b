package entities

import "time"

// DictionaryEntry is a headword of an imported dictionary. The
// (word, reading) pair is unique, so re-importing a term bank reuses the
// existing row.
type DictionaryEntry struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Word        string       `gorm:"uniqueIndex:idx_word_reading;index:idx_word;size:255;not null" json:"word"`
	Reading     string       `gorm:"uniqueIndex:idx_word_reading;index:idx_reading;size:255;not null;default:''" json:"reading"`
	Language    string       `gorm:"size:16" json:"language,omitempty"`
	Definitions []Definition `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"definitions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (DictionaryEntry) TableName() string {
	return "entries"
}

// Definition is one sense of an entry, produced from one structured
// content block.
type Definition struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	EntryID      uint   `gorm:"uniqueIndex:idx_definition;not null" json:"entry_id"`
	PartOfSpeech string `gorm:"uniqueIndex:idx_definition;size:64;not null;default:''" json:"part_of_speech"`
	Text         string `gorm:"column:definition;uniqueIndex:idx_definition;type:text;not null" json:"definition"`
}

func (Definition) TableName() string {
	return "definitions"
}
