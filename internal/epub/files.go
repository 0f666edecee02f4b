package epub

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"

	"github.com/mrlokans/lexreader/internal/pathutil"
)

// maxFileSize caps a single resource read to guard against oversized
// or corrupt files.
const maxFileSize = 256 << 20

// fileExists reports whether p names a regular file in fsys.
func fileExists(fsys fs.FS, p string) bool {
	if !fs.ValidPath(p) || p == "." {
		return false
	}
	info, err := fs.Stat(fsys, p)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// findFile returns the real path of p, repairing letter case segment by
// segment when the exact path does not exist.
func findFile(fsys fs.FS, p string) (string, bool) {
	p = pathutil.Normalize(p)
	if p == "" {
		return "", false
	}
	if fileExists(fsys, p) {
		return p, true
	}

	dir := "."
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return "", false
		}
		match := ""
		for _, entry := range entries {
			if entry.Name() == seg {
				match = entry.Name()
				break
			}
			if match == "" && strings.EqualFold(entry.Name(), seg) {
				match = entry.Name()
			}
		}
		if match == "" {
			return "", false
		}
		if dir == "." {
			dir = match
		} else {
			dir = dir + "/" + match
		}
		if i == len(segments)-1 && !fileExists(fsys, dir) {
			return "", false
		}
	}
	return dir, true
}

// readFile reads p (case-repaired) with the size limit applied.
func readFile(ctx context.Context, fsys fs.FS, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	actual, ok := findFile(fsys, p)
	if !ok {
		return nil, &FileReadError{Path: p, Err: fs.ErrNotExist}
	}

	f, err := fsys.Open(actual)
	if err != nil {
		return nil, &FileReadError{Path: p, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, &FileReadError{Path: p, Err: err}
	}
	if len(data) > maxFileSize {
		return nil, &FileReadError{Path: p, Err: ErrFileTooLarge}
	}
	return data, nil
}

// scanFiles walks the whole book and returns every regular file whose
// extension is in exts, sorted by path.
func scanFiles(ctx context.Context, fsys fs.FS, exts ...string) ([]string, error) {
	var found []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable subtrees are skipped rather than failing the scan.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := pathutil.Ext(p)
		for _, want := range exts {
			if ext == want {
				found = append(found, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

// ReadText reads a text resource and decodes it to a UTF-8 string.
// Valid UTF-8 is used as is; otherwise the charset is sniffed from the
// content, and Latin-1 is the last resort since it accepts any byte.
func ReadText(ctx context.Context, fsys fs.FS, p string) (string, error) {
	data, err := readFile(ctx, fsys, p)
	if err != nil {
		return "", err
	}
	return decodeText(data), nil
}

func decodeText(data []byte) string {
	data = stripBOM(data)
	if utf8.Valid(data) {
		return string(data)
	}

	if enc, _, _ := charset.DetermineEncoding(data, ""); enc != nil {
		if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
			return string(decoded)
		}
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(decoded)
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
