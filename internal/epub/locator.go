package epub

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/mrlokans/lexreader/internal/pathutil"
)

const containerPath = "META-INF/container.xml"

// packageCandidates are checked in order before falling back to a scan.
var packageCandidates = []string{
	containerPath,
	"content.opf",
	"OEBPS/content.opf",
	"OPS/content.opf",
	"EPUB/package.opf",
	"package.opf",
}

type containerXML struct {
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// LocatePackage returns the path of the package document inside fsys.
func LocatePackage(ctx context.Context, fsys fs.FS) (string, error) {
	for _, candidate := range packageCandidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		actual, ok := findFile(fsys, candidate)
		if !ok {
			continue
		}
		if candidate != containerPath {
			return actual, nil
		}

		opfPath, err := packageFromContainer(ctx, fsys, actual)
		if err != nil {
			log.Printf("[EPUB] Ignoring container %s: %v", actual, err)
			continue
		}
		return opfPath, nil
	}

	found, err := scanFiles(ctx, fsys, ".opf")
	if err != nil {
		return "", fmt.Errorf("scan for package document: %w", err)
	}
	if len(found) == 0 {
		return "", ErrPackageNotFound
	}
	log.Printf("[EPUB] Package document found by directory scan: %s", found[0])
	return found[0], nil
}

// packageFromContainer reads the container document and returns the
// package document it points at. The reference is tried relative to the
// book root first and then relative to the container's own directory,
// since packaging tools disagree on which one they write.
func packageFromContainer(ctx context.Context, fsys fs.FS, p string) (string, error) {
	data, err := readFile(ctx, fsys, p)
	if err != nil {
		return "", err
	}

	var c containerXML
	if err := decodeXML(data, &c); err != nil {
		return "", fmt.Errorf("parse container: %w", err)
	}

	ref := chooseRootFile(c.RootFiles)
	if ref == "" {
		return "", fmt.Errorf("container has no rootfile")
	}
	ref = pathutil.Unescape(ref)

	for _, candidate := range []string{
		pathutil.Normalize(ref),
		pathutil.Resolve(p, ref),
	} {
		if actual, ok := findFile(fsys, candidate); ok {
			return actual, nil
		}
	}
	return "", fmt.Errorf("rootfile %q does not exist", ref)
}

func chooseRootFile(files []rootFile) string {
	for _, f := range files {
		if strings.TrimSpace(f.FullPath) != "" && f.MediaType == mediaTypeOPF {
			return strings.TrimSpace(f.FullPath)
		}
	}
	for _, f := range files {
		if p := strings.TrimSpace(f.FullPath); p != "" {
			return p
		}
	}
	return ""
}
