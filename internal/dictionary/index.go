package dictionary

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	dictrepo "github.com/mrlokans/lexreader/internal/database/dictionary"
)

var _ Client = (*Index)(nil)

// Index looks up tokens in the dictionary store by exact word or reading.
type Index struct {
	repo *dictrepo.Repository
}

func NewIndex(db *gorm.DB) *Index {
	return &Index{repo: dictrepo.NewRepository(db)}
}

// Lookup returns the first definition for token. found is false when
// nothing matches; err is reserved for store failures.
func (ix *Index) Lookup(ctx context.Context, token string) (Match, bool, error) {
	matches, err := ix.LookupAll(ctx, token)
	if err != nil || len(matches) == 0 {
		return Match{}, false, err
	}
	return matches[0], true, nil
}

// LookupAll returns every definition for token, ordered by entry and then
// by definition.
func (ix *Index) LookupAll(ctx context.Context, token string) ([]Match, error) {
	token = Normalize(token)
	if token == "" {
		return nil, nil
	}

	rows, err := ix.repo.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", token, err)
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			Word:         row.Word,
			Reading:      row.Reading,
			PartOfSpeech: row.PartOfSpeech,
			Definition:   row.Definition,
		})
	}
	return matches, nil
}

// Stats returns entry and definition counts.
func (ix *Index) Stats(ctx context.Context) (dictrepo.Stats, error) {
	return ix.repo.Stats(ctx)
}
