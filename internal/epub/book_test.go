package epub

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBook() fstest.MapFS {
	items := []testItem{
		xhtmlItem("ch1", "text/ch1.xhtml"),
		xhtmlItem("ch2", "text/ch2.xhtml"),
		xhtmlItem("ch3", "text/ch3.xhtml"),
		{id: "nav", href: "nav.xhtml", mediaType: "application/xhtml+xml", properties: "nav"},
	}
	return fstest.MapFS{
		"mimetype":               file("application/epub+zip"),
		"META-INF/container.xml": file(containerDoc("OEBPS/content.opf")),
		"OEBPS/content.opf":      file(opfDoc(items, []string{"ch1", "ch2", "ch3"}, "")),
		"OEBPS/text/ch1.xhtml":   file(chapterDoc("<p>One</p>")),
		"OEBPS/text/ch2.xhtml":   file(chapterDoc("<p>Two</p>")),
		"OEBPS/text/ch3.xhtml":   file(chapterDoc("<p>Three</p>")),
	}
}

func TestOpen_SpineOrderWithoutTOC(t *testing.T) {
	book, err := Open(context.Background(), sampleBook())
	require.NoError(t, err)

	assert.Equal(t, "OEBPS/content.opf", book.PackagePath)
	assert.Nil(t, book.TOC)
	assert.Equal(t, []string{
		"OEBPS/text/ch1.xhtml",
		"OEBPS/text/ch2.xhtml",
		"OEBPS/text/ch3.xhtml",
	}, sectionPaths(book.Sections))
	assert.Equal(t, "Test Book", book.Metadata().Title)
}

func TestOpen_TOCOrderWithAppendedSpine(t *testing.T) {
	fsys := sampleBook()
	fsys["OEBPS/nav.xhtml"] = file(navDoc([]navEntry{
		{title: "Chapter Three", href: "text/ch3.xhtml"},
		{title: "Chapter One", href: "text/ch1.xhtml#top"},
		{title: "Missing", href: "text/gone.xhtml"},
	}))

	book, err := Open(context.Background(), fsys)
	require.NoError(t, err)

	assert.Len(t, book.TOC, 3)
	assert.Equal(t, []string{
		"OEBPS/text/ch3.xhtml",
		"OEBPS/text/ch1.xhtml",
		"OEBPS/text/ch2.xhtml",
	}, sectionPaths(book.Sections))
	assert.Equal(t, []string{"Chapter Three", "Chapter One", "Section 2"}, sectionTitles(book.Sections))
	for i, s := range book.Sections {
		assert.Equal(t, i, s.Order)
	}
}

func TestOpen_BrokenPackageFallsBackToScan(t *testing.T) {
	fsys := fstest.MapFS{
		"META-INF/container.xml": file(containerDoc("content.opf")),
		"content.opf":            file("definitely not xml"),
		"pages/002.html":         file("<p>Two</p>"),
		"pages/001.html":         file("<p>One</p>"),
	}

	book, err := Open(context.Background(), fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"pages/001.html", "pages/002.html"}, sectionPaths(book.Sections))
	assert.Equal(t, Metadata{}, book.Metadata())
}

func TestOpen_FatalOutcomes(t *testing.T) {
	t.Run("package not found", func(t *testing.T) {
		_, err := Open(context.Background(), fstest.MapFS{"cover.jpg": file("x")})
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})

	t.Run("no readable content", func(t *testing.T) {
		fsys := fstest.MapFS{
			"content.opf": file(opfDoc([]testItem{xhtmlItem("a", "a.xhtml")}, []string{"a"}, "")),
		}
		_, err := Open(context.Background(), fsys)
		assert.ErrorIs(t, err, ErrNoReadableContent)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Open(ctx, sampleBook())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
