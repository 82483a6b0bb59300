package junit

import (
	"encoding/xml"
	"strings"
)

const truncationMarker = "..."

// Attr is a single XML attribute. Entities list their attributes explicitly and in schema order.
type Attr struct {
	Name  string
	Value string
}

// Clean drops attributes with empty values and cuts multi-line values at the first newline,
// marking the cut with "...".
func Clean(attrs []Attr) []Attr {
	cleaned := make([]Attr, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Value == "" {
			continue
		}

		if idx := strings.IndexByte(attr.Value, '\n'); idx >= 0 {
			attr.Value = attr.Value[:idx] + truncationMarker
		}

		cleaned = append(cleaned, attr)
	}

	return cleaned
}

func startElement(name string, attrs []Attr) xml.StartElement {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	for _, attr := range Clean(attrs) {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: attr.Name}, Value: attr.Value})
	}

	return el
}
