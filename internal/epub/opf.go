package epub

import (
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/lexreader/internal/pathutil"
)

// Package is the parsed package document.
type Package struct {
	Path     string
	Version  string
	Metadata Metadata
	Manifest []ManifestItem
	Spine    []SpineItem
	// NCXID is the manifest id named by the spine toc attribute.
	NCXID string

	byID map[string]int
}

type opfPackage struct {
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Items    []opfItem   `xml:"manifest>item"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Titles    []string  `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators  []string  `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages []string  `xml:"http://purl.org/dc/elements/1.1/ language"`
	Metas     []opfMeta `xml:"meta"`
}

type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// ParsePackage decodes the package document stored at opfPath. Manifest
// hrefs are resolved against opfPath.
func ParsePackage(data []byte, opfPath string) (*Package, error) {
	var raw opfPackage
	if err := decodeXML(data, &raw); err != nil {
		return nil, &ManifestParseError{Path: opfPath, Err: err}
	}

	pkg := &Package{
		Path:    opfPath,
		Version: raw.Version,
		NCXID:   strings.TrimSpace(raw.Spine.Toc),
		byID:    make(map[string]int, len(raw.Items)),
	}
	if pkg.Version == "" {
		pkg.Version = "2.0"
	}

	for _, item := range raw.Items {
		id := strings.TrimSpace(item.ID)
		href := strings.TrimSpace(item.Href)
		if id == "" || href == "" {
			log.Printf("[EPUB] Skipping manifest item without id or href in %s", opfPath)
			continue
		}
		if _, dup := pkg.byID[id]; dup {
			log.Printf("[EPUB] Duplicate manifest id %q in %s, keeping the first", id, opfPath)
			continue
		}
		pkg.byID[id] = len(pkg.Manifest)
		pkg.Manifest = append(pkg.Manifest, ManifestItem{
			ID:         id,
			Href:       href,
			Path:       pathutil.Resolve(opfPath, pathutil.Unescape(href)),
			MediaType:  strings.ToLower(strings.TrimSpace(item.MediaType)),
			Properties: strings.Fields(item.Properties),
		})
	}

	for _, ref := range raw.Spine.ItemRefs {
		pkg.Spine = append(pkg.Spine, SpineItem{
			IDRef:  strings.TrimSpace(ref.IDRef),
			Linear: ref.Linear != "no",
		})
	}

	pkg.Metadata = Metadata{
		Title:     firstNonEmpty(raw.Metadata.Titles),
		Creator:   firstNonEmpty(raw.Metadata.Creators),
		Language:  firstNonEmpty(raw.Metadata.Languages),
		CoverPath: pkg.coverPath(raw.Metadata.Metas),
	}

	return pkg, nil
}

// Item returns the manifest item with the given id.
func (p *Package) Item(id string) (ManifestItem, bool) {
	if p == nil {
		return ManifestItem{}, false
	}
	idx, ok := p.byID[id]
	if !ok {
		return ManifestItem{}, false
	}
	return p.Manifest[idx], true
}

// ReadingOrder returns the manifest items in reading order. A spine that
// yields no items falls back to the markup items of the manifest, and then
// to the whole manifest.
func (p *Package) ReadingOrder() []ManifestItem {
	if p == nil {
		return nil
	}

	var items []ManifestItem
	for _, ref := range p.Spine {
		item, ok := p.Item(ref.IDRef)
		if !ok {
			log.Printf("[EPUB] Spine references unknown manifest id %q, skipping", ref.IDRef)
			continue
		}
		items = append(items, item)
	}
	if len(items) > 0 {
		return items
	}

	for _, item := range p.Manifest {
		if isMarkupMediaType(item.MediaType) {
			items = append(items, item)
		}
	}
	if len(items) > 0 {
		log.Printf("[EPUB] No usable spine in %s, using %d markup manifest items", p.Path, len(items))
		return items
	}

	if len(p.Manifest) > 0 {
		log.Printf("[EPUB] No usable spine in %s, using all %d manifest items", p.Path, len(p.Manifest))
	}
	return append(items, p.Manifest...)
}

// SpineSections converts the reading order into sections with generic
// titles. Repeated paths keep their first position.
func (p *Package) SpineSections() []Section {
	var sections []Section
	seen := make(map[string]bool)
	for _, item := range p.ReadingOrder() {
		if seen[item.Path] {
			continue
		}
		seen[item.Path] = true
		sections = append(sections, Section{
			Path:  item.Path,
			Title: genericTitle(len(sections)),
			Order: len(sections),
		})
	}
	return sections
}

func (p *Package) coverPath(metas []opfMeta) string {
	for _, item := range p.Manifest {
		if item.HasProperty("cover-image") {
			return item.Path
		}
	}
	for _, m := range metas {
		if strings.EqualFold(m.Name, "cover") {
			if item, ok := p.Item(strings.TrimSpace(m.Content)); ok {
				return item.Path
			}
		}
	}
	return ""
}

func genericTitle(index int) string {
	return fmt.Sprintf("Section %d", index+1)
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
