package dictionary

import "context"

// Match is one definition found for a lookup token.
type Match struct {
	Word         string `json:"word"`
	Reading      string `json:"reading"`
	PartOfSpeech string `json:"part_of_speech"`
	Definition   string `json:"definition"`
}

// Client answers word lookups.
type Client interface {
	Lookup(ctx context.Context, token string) (Match, bool, error)
	LookupAll(ctx context.Context, token string) ([]Match, error)
}
