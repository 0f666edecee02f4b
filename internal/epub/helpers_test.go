package epub

import (
	"fmt"
	"strings"
	"testing/fstest"
)

func containerDoc(fullPath string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="%s" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`, fullPath)
}

type testItem struct {
	id, href, mediaType, properties string
}

func xhtmlItem(id, href string) testItem {
	return testItem{id: id, href: href, mediaType: "application/xhtml+xml"}
}

func opfDoc(items []testItem, spine []string, tocID string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Jane Doe</dc:creator>
    <dc:language>ja</dc:language>
  </metadata>
  <manifest>
`)
	for _, it := range items {
		fmt.Fprintf(&sb, `    <item id="%s" href="%s" media-type="%s"`, it.id, it.href, it.mediaType)
		if it.properties != "" {
			fmt.Fprintf(&sb, ` properties="%s"`, it.properties)
		}
		sb.WriteString("/>\n")
	}
	sb.WriteString("  </manifest>\n")
	if tocID != "" {
		fmt.Fprintf(&sb, `  <spine toc="%s">`+"\n", tocID)
	} else {
		sb.WriteString("  <spine>\n")
	}
	for _, ref := range spine {
		fmt.Fprintf(&sb, `    <itemref idref="%s"/>`+"\n", ref)
	}
	sb.WriteString("  </spine>\n</package>\n")
	return sb.String()
}

func chapterDoc(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>t</title></head><body>` + body + `</body></html>`
}

type navEntry struct {
	title, href string
	children    []navEntry
}

func navDoc(entries []navEntry) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Contents</title></head><body>
<nav epub:type="landmarks"><ol><li><a href="cover.xhtml">Cover</a></li></ol></nav>
<nav epub:type="toc"><h1>Contents</h1>`)
	writeNavList(&sb, entries)
	sb.WriteString("</nav></body></html>")
	return sb.String()
}

func writeNavList(sb *strings.Builder, entries []navEntry) {
	sb.WriteString("<ol>")
	for _, e := range entries {
		sb.WriteString("<li>")
		if e.href != "" {
			fmt.Fprintf(sb, `<a href="%s">%s</a>`, e.href, e.title)
		} else {
			fmt.Fprintf(sb, `<span>%s</span>`, e.title)
		}
		if len(e.children) > 0 {
			writeNavList(sb, e.children)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ol>")
}

func ncxDoc(entries []navEntry) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
<head/><docTitle><text>Test</text></docTitle><navMap>`)
	writeNavPoints(&sb, entries)
	sb.WriteString("</navMap></ncx>")
	return sb.String()
}

func writeNavPoints(sb *strings.Builder, entries []navEntry) {
	for i, e := range entries {
		fmt.Fprintf(sb, `<navPoint id="np%d"><navLabel><text>%s</text></navLabel><content src="%s"/>`, i, e.title, e.href)
		writeNavPoints(sb, e.children)
		sb.WriteString("</navPoint>")
	}
}

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

func sectionPaths(sections []Section) []string {
	paths := make([]string, len(sections))
	for i, s := range sections {
		paths[i] = s.Path
	}
	return paths
}

func sectionTitles(sections []Section) []string {
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	return titles
}
