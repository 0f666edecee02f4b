package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Content is a node of a structured content tree: Text, Sequence or
// *Node.
type Content interface {
	isContent()
}

// Text is a plain string leaf.
type Text string

// Sequence is an ordered list of children.
type Sequence []Content

// Node is a tagged element. Content is nil when the element has none.
type Node struct {
	Tag     string
	Title   string
	Content Content
}

func (Text) isContent()     {}
func (Sequence) isContent() {}
func (*Node) isContent()    {}

type rawNode struct {
	Tag     string          `json:"tag"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// DecodeContent decodes a structured content JSON value. Numbers, booleans
// and null decode to nil and are ignored by the walker.
func DecodeContent(data json.RawMessage) (Content, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Text(s), nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		seq := make(Sequence, 0, len(items))
		for i, item := range items {
			c, err := DecodeContent(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			if c != nil {
				seq = append(seq, c)
			}
		}
		return seq, nil

	case '{':
		var raw rawNode
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		child, err := DecodeContent(raw.Content)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", raw.Tag, err)
		}
		return &Node{Tag: raw.Tag, Title: raw.Title, Content: child}, nil
	}

	return nil, nil
}

// Sense is the result of walking one structured content block.
type Sense struct {
	PartOfSpeech string
	Text         string
}

// Walk extracts the part of speech and definition text from a content
// tree. A span whose title contains "(" names the part of speech; an li
// holding a plain string contributes its text; strings elsewhere are
// appended as they are reached.
func Walk(c Content) Sense {
	var w walker
	w.visit(c)
	return Sense{
		PartOfSpeech: strings.TrimSpace(w.pos),
		Text:         strings.TrimSpace(w.text.String()),
	}
}

type walker struct {
	pos  string
	text strings.Builder
}

func (w *walker) appendText(s string) {
	w.text.WriteString(s)
	w.text.WriteByte(' ')
}

func (w *walker) visit(c Content) {
	switch v := c.(type) {
	case Text:
		w.appendText(string(v))
	case Sequence:
		for _, child := range v {
			w.visit(child)
		}
	case *Node:
		if v.Tag == "span" && strings.Contains(v.Title, "(") {
			w.pos = strings.TrimSpace(v.Title[:strings.Index(v.Title, "(")])
			return
		}
		if text, ok := v.Content.(Text); ok && v.Tag == "li" {
			w.appendText(string(text))
			return
		}
		if v.Content != nil {
			w.visit(v.Content)
		}
	}
}
