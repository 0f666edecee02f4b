// Package dictionary imports term bank archives into the dictionary store
// and answers lookups against it.
package dictionary

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/mrlokans/lexreader/internal/busy"
	"github.com/mrlokans/lexreader/internal/database"
	dictrepo "github.com/mrlokans/lexreader/internal/database/dictionary"
	"github.com/mrlokans/lexreader/internal/entities"
	"github.com/mrlokans/lexreader/internal/utils"
)

// ImportResult summarizes a committed import. Entries and Definitions
// count rows that were new to the store.
type ImportResult struct {
	Title       string `json:"title,omitempty"`
	Files       int    `json:"files"`
	Entries     int    `json:"entries"`
	Definitions int    `json:"definitions"`
	Skipped     int    `json:"skipped"`
}

// Importer loads lexicon archives into one dictionary store. Only one
// import per store runs at a time.
type Importer struct {
	db       *gorm.DB
	repo     *dictrepo.Repository
	storeKey string
	language string
	guard    *busy.Guard
}

// NewImporter creates an importer writing to db. storeKey identifies the
// store for the busy guard, usually its file path.
func NewImporter(db *gorm.DB, storeKey, language string) *Importer {
	return &Importer{
		db:       db,
		repo:     dictrepo.NewRepository(db),
		storeKey: busy.PathKey(storeKey),
		language: language,
		guard:    busy.Shared(),
	}
}

// Busy reports whether an import is running.
func (im *Importer) Busy() bool {
	return im.guard.IsBusy(im.storeKey)
}

type termBankFile struct {
	name string
	file *zip.File
}

// Import reads every term bank of the archive at archivePath and writes
// its entries and definitions in a single transaction. Malformed tuples
// are logged and skipped; an unreadable term bank, any store error or
// cancellation rolls the whole import back.
func (im *Importer) Import(ctx context.Context, archivePath string) (*ImportResult, error) {
	release, err := im.guard.TryAcquire(im.storeKey)
	if err != nil {
		return nil, err
	}
	defer release()

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		if zr != nil {
			zr.Close()
		}
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	result := &ImportResult{}
	var banks []termBankFile
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case IsTermBank(f.Name):
			banks = append(banks, termBankFile{name: f.Name, file: f})
		case f.Name == indexFile:
			result.Title = readTitle(f)
		}
	}
	if len(banks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTermBanks, archivePath)
	}

	if result.Title != "" {
		log.Printf("[DICT] Importing %q from %s (%d term banks)", result.Title, archivePath, len(banks))
	} else {
		log.Printf("[DICT] Importing %s (%d term banks)", archivePath, len(banks))
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.Migrate(tx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		repo := im.repo.WithTx(tx)
		for _, bank := range banks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := im.importBank(ctx, repo, bank, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &ImportTransactionError{Archive: archivePath, Err: err}
	}

	log.Printf("[DICT] Import complete: %d files, %d new entries, %d new definitions, %d skipped",
		result.Files, result.Entries, result.Definitions, result.Skipped)
	return result, nil
}

func (im *Importer) importBank(ctx context.Context, repo *dictrepo.Repository, bank termBankFile, result *ImportResult) error {
	data, err := utils.ReadZipEntry(bank.file, utils.MaxEntrySize)
	if err != nil {
		return fmt.Errorf("read %s: %w", bank.name, err)
	}

	terms, err := ParseTermBank(data, func(i int, err error) {
		log.Printf("[DICT] %s: skipping tuple %d: %v", bank.name, i, err)
		result.Skipped++
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", bank.name, err)
	}
	result.Files++

	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return err
		}
		entryID, created, err := repo.InsertEntry(ctx, &entities.DictionaryEntry{
			Word:     Normalize(term.Word),
			Reading:  Normalize(term.Reading),
			Language: im.language,
		})
		if err != nil {
			return err
		}
		if created {
			result.Entries++
		}

		for _, block := range term.Blocks {
			sense := Walk(block)
			created, err := repo.InsertDefinition(ctx, &entities.Definition{
				EntryID:      entryID,
				PartOfSpeech: sense.PartOfSpeech,
				Text:         sense.Text,
			})
			if err != nil {
				return err
			}
			if created {
				result.Definitions++
			}
		}
	}
	return nil
}

func readTitle(f *zip.File) string {
	data, err := utils.ReadZipEntry(f, 1<<20)
	if err != nil {
		log.Printf("[DICT] Unreadable %s: %v", f.Name, err)
		return ""
	}
	var idx archiveIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		log.Printf("[DICT] Invalid %s: %v", f.Name, err)
		return ""
	}
	return strings.TrimSpace(idx.Title)
}

// Normalize puts a word or lookup token in the form stored in the
// dictionary.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
