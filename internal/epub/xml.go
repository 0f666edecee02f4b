package epub

import (
	"bytes"
	"encoding/xml"

	"golang.org/x/net/html/charset"
)

// decodeXML unmarshals package and navigation documents leniently. HTML
// named entities are accepted and non-UTF-8 encodings declared in the
// prolog are converted.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(stripBOM(data)))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}
