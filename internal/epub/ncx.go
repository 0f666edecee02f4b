package epub

import "fmt"

type ncxDocument struct {
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxNavPoint struct {
	Label    string        `xml:"navLabel>text"`
	Content  ncxContent    `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// parseNCX reads the navMap of a legacy navigation control document.
func parseNCX(data []byte, ncxPath string) ([]NavNode, error) {
	var doc ncxDocument
	if err := decodeXML(data, &doc); err != nil {
		return nil, fmt.Errorf("parse NCX: %w", err)
	}
	return convertNavPoints(doc.NavPoints, ncxPath), nil
}

func convertNavPoints(points []ncxNavPoint, ncxPath string) []NavNode {
	if len(points) == 0 {
		return nil
	}
	nodes := make([]NavNode, 0, len(points))
	for _, p := range points {
		nodes = append(nodes, NavNode{
			Title:    collapseSpace(p.Label),
			Target:   resolveTarget(ncxPath, p.Content.Src),
			Children: convertNavPoints(p.Children, ncxPath),
		})
	}
	return nodes
}
