package utils

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaxEntrySize caps the decompressed size of a single archive entry.
const MaxEntrySize int64 = 256 << 20

var (
	ErrUnsafePath      = errors.New("unsafe archive entry path")
	ErrEntryTooLarge   = errors.New("archive entry too large")
	ErrArchiveTooLarge = errors.New("archive too large")
)

// IsSafeArchivePath reports whether an archive entry name stays inside the
// extraction root.
func IsSafeArchivePath(name string) bool {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") || filepath.VolumeName(name) != "" {
		return false
	}
	cleaned := path.Clean(name)
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// ReadZipEntry reads a whole entry, refusing entries that decompress to
// more than limit bytes whatever their declared size.
func ReadZipEntry(f *zip.File, limit int64) ([]byte, error) {
	if !IsSafeArchivePath(f.Name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)
	}
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, f.Name)
	}
	return data, nil
}

// ExtractZip unpacks the archive at src into dest, creating it if needed.
// Extraction stops at the first unsafe entry, at limit total bytes or
// when ctx is done; dest may then hold a partial tree that the caller is
// expected to remove.
func ExtractZip(ctx context.Context, src, dest string, limit int64) error {
	zr, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		zr.Close()
		return fmt.Errorf("%w: %s", ErrUnsafePath, src)
	}
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	var total int64
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !IsSafeArchivePath(f.Name) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)
		}

		target := filepath.Join(dest, filepath.FromSlash(strings.ReplaceAll(f.Name, "\\", "/")))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		n, err := extractEntry(f, target, limit-total)
		if err != nil {
			return err
		}
		total += n
	}
	return nil
}

func extractEntry(f *zip.File, target string, remaining int64) (int64, error) {
	if remaining <= 0 || f.UncompressedSize64 > uint64(remaining) {
		return 0, fmt.Errorf("%w: %s", ErrArchiveTooLarge, f.Name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, err
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(rc, remaining+1))
	if err != nil {
		return n, fmt.Errorf("write %s: %w", f.Name, err)
	}
	if n > remaining {
		return n, fmt.Errorf("%w: %s", ErrArchiveTooLarge, f.Name)
	}
	return n, out.Close()
}
