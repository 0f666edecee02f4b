package reader

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexreader/internal/epub"
)

type recordingStore struct {
	saved []int
	err   error
}

func (s *recordingStore) SaveProgress(_ context.Context, _ string, sectionIndex int) error {
	s.saved = append(s.saved, sectionIndex)
	return s.err
}

func testBook() (fstest.MapFS, []epub.Section) {
	fsys := fstest.MapFS{
		"text/ch1.xhtml": &fstest.MapFile{Data: []byte("<html><body><p>One</p></body></html>")},
		"text/ch2.xhtml": &fstest.MapFile{Data: []byte("<p>Two</p>")},
		"text/ch3.xhtml": &fstest.MapFile{Data: []byte("<html><body><p>Three</p></body></html>")},
	}
	sections := []epub.Section{
		{Path: "text/ch1.xhtml", Title: "One", Order: 0},
		{Path: "text/ch2.xhtml", Title: "Two", Order: 1},
		{Path: "text/ch3.xhtml", Title: "Three", Order: 2},
	}
	return fsys, sections
}

func TestNewNavigator_ClampsStart(t *testing.T) {
	fsys, sections := testBook()

	assert.Equal(t, 0, NewNavigator("b", fsys, sections, -5, nil).Current())
	assert.Equal(t, 1, NewNavigator("b", fsys, sections, 1, nil).Current())
	assert.Equal(t, 2, NewNavigator("b", fsys, sections, 42, nil).Current())
	assert.Equal(t, 0, NewNavigator("b", fsys, nil, 3, nil).Current())
}

func TestNavigator_Load(t *testing.T) {
	fsys, sections := testBook()
	store := &recordingStore{}
	nav := NewNavigator("book-1", fsys, sections, 0, store)

	page := nav.Load(context.Background(), 1)
	require.NoError(t, page.Err)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, "Two", page.Section.Title)
	assert.Equal(t, "<p>Two</p>", page.HTML)
	assert.Equal(t, 1, nav.Current())

	page = nav.Load(context.Background(), 99)
	require.NoError(t, page.Err)
	assert.Equal(t, 2, page.Index)
	assert.Equal(t, "<p>Three</p>", page.HTML)

	assert.Equal(t, []int{1, 2}, store.saved)
}

func TestNavigator_LoadFailureKeepsPosition(t *testing.T) {
	fsys, sections := testBook()
	delete(fsys, "text/ch3.xhtml")
	store := &recordingStore{}
	nav := NewNavigator("book-1", fsys, sections, 1, store)

	page := nav.Load(context.Background(), 2)
	require.Error(t, page.Err)
	assert.Contains(t, page.HTML, "<p>Error loading section: ")
	assert.Equal(t, 1, nav.Current())
	assert.Empty(t, store.saved)
}

func TestNavigator_ProgressFailureDoesNotFailLoad(t *testing.T) {
	fsys, sections := testBook()
	store := &recordingStore{err: errors.New("disk full")}
	nav := NewNavigator("book-1", fsys, sections, 0, store)

	page := nav.LoadCurrent(context.Background())
	require.NoError(t, page.Err)
	assert.Equal(t, "<p>One</p>", page.HTML)
	assert.Equal(t, []int{0}, store.saved)
}

func TestNavigator_AdvanceRetreat(t *testing.T) {
	fsys, sections := testBook()
	nav := NewNavigator("b", fsys, sections, 0, nil)

	assert.False(t, nav.Retreat())
	assert.Equal(t, 0, nav.Current())

	assert.True(t, nav.Advance())
	assert.True(t, nav.Advance())
	assert.Equal(t, 2, nav.Current())

	assert.False(t, nav.Advance())
	assert.Equal(t, 2, nav.Current())

	assert.True(t, nav.Retreat())
	assert.Equal(t, 1, nav.Current())

	section, ok := nav.Section()
	require.True(t, ok)
	assert.Equal(t, "Two", section.Title)
}

func TestNavigator_Empty(t *testing.T) {
	nav := NewNavigator("b", fstest.MapFS{}, nil, 0, nil)

	assert.False(t, nav.Advance())
	assert.False(t, nav.Retreat())
	assert.Equal(t, 0, nav.Len())

	_, ok := nav.Section()
	assert.False(t, ok)

	page := nav.LoadCurrent(context.Background())
	assert.ErrorIs(t, page.Err, ErrNoSections)
}

func TestNavigator_SectionsIsACopy(t *testing.T) {
	fsys, sections := testBook()
	nav := NewNavigator("b", fsys, sections, 0, nil)

	got := nav.Sections()
	got[0].Title = "changed"
	sections[1].Title = "changed too"

	fresh := nav.Sections()
	assert.Equal(t, "One", fresh[0].Title)
	assert.Equal(t, "Two", fresh[1].Title)
}
