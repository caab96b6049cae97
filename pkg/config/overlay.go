package config

import (
	"errors"
)

// ParseOverlay parses the overlay_nodes and overlay_links sections. Unless
// both are declared the overlay is empty; a topology with nodes but no links
// (or the reverse) has no overlay.
func ParseOverlay(src Source) (Overlay, error) {
	nodeItems, err := src.Items(SectionOverlayNodes)
	if err != nil {
		return emptyOverlay(err)
	}
	linkItems, err := src.Items(SectionOverlayLinks)
	if err != nil {
		return emptyOverlay(err)
	}

	ol := Overlay{
		Nodes:     make([]string, 0, len(nodeItems)),
		Adjacency: make(map[string][]string),
	}
	for _, item := range nodeItems {
		ol.Nodes = append(ol.Nodes, item.Key)
	}

	for _, item := range linkItems {
		if item.Value == "" {
			return Overlay{}, &MalformedOverlayLinkError{Key: item.Key}
		}
		connect(ol.Adjacency, item.Key, item.Value)
	}
	return ol, nil
}

// connect records an undirected edge. Every entry appends in both
// directions, so a link declared twice appears twice in each list.
func connect(adj map[string][]string, a, b string) {
	adj[a] = append(adj[a], b)
	adj[b] = append(adj[b], a)
}

func emptyOverlay(err error) (Overlay, error) {
	if errors.Is(err, ErrSectionNotFound) {
		return Overlay{Nodes: []string{}, Adjacency: map[string][]string{}}, nil
	}
	return Overlay{}, err
}
