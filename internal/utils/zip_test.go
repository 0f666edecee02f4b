package utils

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, files map[string]string, order ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	p := filepath.Join(t.TempDir(), "test.zip")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0644))
	return p
}

func TestIsSafeArchivePath(t *testing.T) {
	assert.True(t, IsSafeArchivePath("OEBPS/content.opf"))
	assert.True(t, IsSafeArchivePath("a/../b.txt"))
	assert.False(t, IsSafeArchivePath("../evil.txt"))
	assert.False(t, IsSafeArchivePath("a/../../evil.txt"))
	assert.False(t, IsSafeArchivePath("/etc/passwd"))
	assert.False(t, IsSafeArchivePath("..\\evil.txt"))
	assert.False(t, IsSafeArchivePath(""))
}

func TestExtractZip(t *testing.T) {
	src := writeTestZip(t, map[string]string{
		"mimetype":          "application/epub+zip",
		"OEBPS/content.opf": "<package/>",
		"OEBPS/text/a.html": "<p>a</p>",
	}, "mimetype", "OEBPS/content.opf", "OEBPS/text/a.html")
	dest := filepath.Join(t.TempDir(), "book")

	err := ExtractZip(context.Background(), src, dest, MaxEntrySize)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "OEBPS", "text", "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>", string(data))
}

func TestExtractZip_RejectsTraversal(t *testing.T) {
	src := writeTestZip(t, map[string]string{
		"ok.txt":      "fine",
		"../evil.txt": "bad",
	}, "ok.txt", "../evil.txt")
	root := t.TempDir()
	dest := filepath.Join(root, "book")

	err := ExtractZip(context.Background(), src, dest, MaxEntrySize)
	assert.ErrorIs(t, err, ErrUnsafePath)

	_, statErr := os.Stat(filepath.Join(root, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractZip_SizeLimit(t *testing.T) {
	src := writeTestZip(t, map[string]string{
		"a.txt": "0123456789",
		"b.txt": "0123456789",
	}, "a.txt", "b.txt")

	err := ExtractZip(context.Background(), src, filepath.Join(t.TempDir(), "out"), 15)
	assert.ErrorIs(t, err, ErrArchiveTooLarge)
}

func TestExtractZip_Cancelled(t *testing.T) {
	src := writeTestZip(t, map[string]string{"a.txt": "a"}, "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExtractZip(ctx, src, filepath.Join(t.TempDir(), "out"), MaxEntrySize)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadZipEntry(t *testing.T) {
	src := writeTestZip(t, map[string]string{"big.json": "0123456789"}, "big.json")
	zr, err := zip.OpenReader(src)
	require.NoError(t, err)
	defer zr.Close()

	data, err := ReadZipEntry(zr.File[0], 100)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	_, err = ReadZipEntry(zr.File[0], 5)
	assert.ErrorIs(t, err, ErrEntryTooLarge)
}
