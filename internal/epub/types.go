package epub

// Section is one readable unit of a book. Path is its identity.
type Section struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// ManifestItem is a resource declared in the package manifest.
// Href is kept as written; Path is resolved against the package document.
type ManifestItem struct {
	ID         string
	Href       string
	Path       string
	MediaType  string
	Properties []string
}

// HasProperty reports whether the item declares the given property.
func (m ManifestItem) HasProperty(name string) bool {
	for _, p := range m.Properties {
		if p == name {
			return true
		}
	}
	return false
}

// SpineItem references a manifest item in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// NavNode is one entry of a table of contents. Target is empty for
// entries that only group their children.
type NavNode struct {
	Title    string    `json:"title"`
	Target   string    `json:"target,omitempty"`
	Children []NavNode `json:"children,omitempty"`
}

// Metadata holds the descriptive fields used by the library.
type Metadata struct {
	Title     string `json:"title"`
	Creator   string `json:"creator"`
	Language  string `json:"language"`
	CoverPath string `json:"cover_path,omitempty"`
}

const (
	mediaTypeXHTML   = "application/xhtml+xml"
	mediaTypeHTML    = "text/html"
	mediaTypeXML     = "application/xml"
	mediaTypeTextXML = "text/xml"
	mediaTypeDTBook  = "application/x-dtbook+xml"
	mediaTypeNCX     = "application/x-dtbncx+xml"
	mediaTypeOPF     = "application/oebps-package+xml"
)

func isMarkupMediaType(mt string) bool {
	switch mt {
	case mediaTypeXHTML, mediaTypeHTML, mediaTypeXML, mediaTypeTextXML, mediaTypeDTBook:
		return true
	}
	return false
}
