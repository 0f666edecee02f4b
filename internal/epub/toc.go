package epub

import (
	"context"
	"io/fs"
	"log"
	"strings"

	"github.com/mrlokans/lexreader/internal/pathutil"
)

type tocKind int

const (
	tocNav tocKind = iota
	tocNCX
)

func (k tocKind) String() string {
	if k == tocNav {
		return "nav document"
	}
	return "NCX"
}

type tocSource struct {
	kind tocKind
	path string
}

// ResolveTOC loads the table of contents of pkg. The navigation document
// is preferred over the NCX; the NCX is only tried when the navigation
// document is missing, unreadable or empty. A nil result means the book
// has no usable table of contents. Only context cancellation is returned
// as an error.
func ResolveTOC(ctx context.Context, fsys fs.FS, pkg *Package) ([]NavNode, error) {
	for _, src := range tocSources(pkg) {
		data, err := readFile(ctx, fsys, src.path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Printf("[EPUB] Cannot read %s %s: %v", src.kind, src.path, err)
			continue
		}

		var nodes []NavNode
		if src.kind == tocNav {
			nodes, err = parseNavDocument(data, src.path)
		} else {
			nodes, err = parseNCX(data, src.path)
		}
		if err != nil {
			log.Printf("[EPUB] Cannot parse %s %s: %v", src.kind, src.path, err)
			continue
		}
		if len(nodes) == 0 {
			log.Printf("[EPUB] %s %s has no entries", src.kind, src.path)
			continue
		}
		return nodes, nil
	}
	return nil, nil
}

func tocSources(pkg *Package) []tocSource {
	if pkg == nil {
		return nil
	}

	var sources []tocSource
	for _, item := range pkg.Manifest {
		if item.HasProperty("nav") {
			sources = append(sources, tocSource{kind: tocNav, path: item.Path})
			break
		}
	}

	if item, ok := pkg.Item(pkg.NCXID); ok {
		sources = append(sources, tocSource{kind: tocNCX, path: item.Path})
		return sources
	}
	for _, item := range pkg.Manifest {
		if item.MediaType == mediaTypeNCX {
			sources = append(sources, tocSource{kind: tocNCX, path: item.Path})
			break
		}
	}
	return sources
}

// resolveTarget turns a table of contents href into a book path. External
// links, empty hrefs and fragment-only hrefs yield "". The latter point into
// the navigation document itself, which is not reading content.
func resolveTarget(docPath, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || pathutil.IsExternal(href) {
		return ""
	}
	ref := pathutil.StripFragment(href)
	if ref == "" {
		return ""
	}
	return pathutil.Resolve(docPath, pathutil.Unescape(ref))
}

// Flatten lists nodes depth first, each node before its children. The
// returned nodes carry no children.
func Flatten(nodes []NavNode) []NavNode {
	var flat []NavNode
	var visit func([]NavNode)
	visit = func(level []NavNode) {
		for _, n := range level {
			flat = append(flat, NavNode{Title: n.Title, Target: n.Target})
			visit(n.Children)
		}
	}
	visit(nodes)
	return flat
}

// MergeSections orders sections by the flattened table of contents.
// Sections known from the spine keep their identity and take the table of
// contents title; unknown targets become new sections. Spine sections the
// table of contents never reached are appended in spine order. No path
// appears twice and orders are renumbered from zero.
func MergeSections(spine []Section, flat []NavNode) []Section {
	byPath := make(map[string]Section, len(spine))
	for _, s := range spine {
		if _, ok := byPath[s.Path]; !ok {
			byPath[s.Path] = s
		}
	}

	placed := make(map[string]bool, len(spine)+len(flat))
	merged := make([]Section, 0, len(spine)+len(flat))

	for _, node := range flat {
		if node.Target == "" {
			if node.Title != "" {
				log.Printf("[EPUB] Table of contents entry %q has no target, skipping", node.Title)
			}
			continue
		}
		if placed[node.Target] {
			continue
		}
		section, ok := byPath[node.Target]
		if !ok {
			section = Section{Path: node.Target}
		}
		if node.Title != "" {
			section.Title = node.Title
		}
		if section.Title == "" {
			section.Title = genericTitle(len(merged))
		}
		placed[node.Target] = true
		merged = append(merged, section)
	}

	for _, s := range spine {
		if placed[s.Path] {
			continue
		}
		placed[s.Path] = true
		merged = append(merged, s)
	}

	return renumber(merged)
}

func renumber(sections []Section) []Section {
	for i := range sections {
		sections[i].Order = i
	}
	return sections
}
