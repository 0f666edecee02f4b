package epub

import (
	"context"
	"io/fs"
	"log"
)

// Book is an opened book: its package document, table of contents and
// the validated reading order.
type Book struct {
	PackagePath string
	Package     *Package
	TOC         []NavNode
	Sections    []Section
}

// Open resolves the extracted book in fsys into an ordered list of
// readable sections. Only ErrPackageNotFound, ErrNoReadableContent and
// context errors abort it; every other problem is logged and degrades the
// result.
func Open(ctx context.Context, fsys fs.FS) (*Book, error) {
	opfPath, err := LocatePackage(ctx, fsys)
	if err != nil {
		return nil, err
	}

	pkg, err := loadPackage(ctx, fsys, opfPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("[EPUB] %v; continuing without manifest", err)
		pkg = &Package{Path: opfPath}
	}

	toc, err := ResolveTOC(ctx, fsys, pkg)
	if err != nil {
		return nil, err
	}

	sections := MergeSections(pkg.SpineSections(), Flatten(toc))
	sections, err = ValidateSections(ctx, fsys, sections)
	if err != nil {
		return nil, err
	}

	log.Printf("[EPUB] Opened %s: %d sections", opfPath, len(sections))
	return &Book{
		PackagePath: opfPath,
		Package:     pkg,
		TOC:         toc,
		Sections:    sections,
	}, nil
}

// Metadata returns the package metadata, empty when the package could
// not be parsed.
func (b *Book) Metadata() Metadata {
	if b == nil || b.Package == nil {
		return Metadata{}
	}
	return b.Package.Metadata
}

func loadPackage(ctx context.Context, fsys fs.FS, opfPath string) (*Package, error) {
	data, err := readFile(ctx, fsys, opfPath)
	if err != nil {
		return nil, err
	}
	return ParsePackage(data, opfPath)
}
