package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

const (
	termBankPrefix = "term_bank_"
	termBankExt    = ".json"
	indexFile      = "index.json"

	// contentField is the position of the content array in a term tuple:
	// [word, reading, defTags, rules, score, content, sequence, termTags].
	contentField = 5
)

// Term is one decoded term bank tuple.
type Term struct {
	Word    string
	Reading string
	Blocks  []Content
}

// archiveIndex is the optional index.json describing the dictionary.
type archiveIndex struct {
	Title    string `json:"title"`
	Revision string `json:"revision"`
	Format   int    `json:"format"`
}

// IsTermBank reports whether an archive member name is a term bank file.
func IsTermBank(name string) bool {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.HasPrefix(base, termBankPrefix) && strings.HasSuffix(base, termBankExt)
}

// ParseTermBank decodes a term bank file. Tuples that cannot be decoded
// are reported through skip and left out of the result.
func ParseTermBank(data []byte, skip func(index int, err error)) ([]Term, error) {
	var tuples []json.RawMessage
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), &tuples); err != nil {
		return nil, fmt.Errorf("decode term bank: %w", err)
	}

	terms := make([]Term, 0, len(tuples))
	for i, raw := range tuples {
		term, err := parseTerm(raw)
		if err != nil {
			if skip != nil {
				skip(i, err)
			}
			continue
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func parseTerm(raw json.RawMessage) (Term, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Term{}, fmt.Errorf("tuple is not a list: %w", err)
	}
	if len(fields) < 2 {
		return Term{}, fmt.Errorf("tuple has %d fields", len(fields))
	}

	var term Term
	if err := json.Unmarshal(fields[0], &term.Word); err != nil {
		return Term{}, fmt.Errorf("word: %w", err)
	}
	if strings.TrimSpace(term.Word) == "" {
		return Term{}, fmt.Errorf("empty word")
	}
	// A null reading decodes to "".
	if err := json.Unmarshal(fields[1], &term.Reading); err != nil {
		return Term{}, fmt.Errorf("reading of %q: %w", term.Word, err)
	}

	if len(fields) <= 2 {
		return term, nil
	}
	contentRaw := fields[len(fields)-1]
	if len(fields) > contentField {
		contentRaw = fields[contentField]
	}

	blocks, err := structuredBlocks(contentRaw)
	if err != nil {
		return Term{}, fmt.Errorf("content of %q: %w", term.Word, err)
	}
	term.Blocks = blocks
	return term, nil
}

// structuredBlocks returns the decoded trees of every structured-content
// item. Plain glossary strings and other item types carry no definition.
func structuredBlocks(raw json.RawMessage) ([]Content, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	var blocks []Content
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var block struct {
			Type    string          `json:"type"`
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(item, &block); err != nil {
			return nil, err
		}
		if block.Type != "structured-content" {
			continue
		}
		tree, err := DecodeContent(block.Content)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, tree)
	}
	return blocks, nil
}
