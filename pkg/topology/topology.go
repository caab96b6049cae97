package topology

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jhwagner/ndn-topo/pkg/config"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gopkg.in/yaml.v3"
)

// Export formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrNoPath is returned by ShortestPath when the nodes are disconnected.
var ErrNoPath = errors.New("no path between nodes")

// Topology is a graph view over a parsed topology configuration
type Topology struct {
	cfg *config.Topology

	ids   map[string]int64
	names map[int64]string

	physical *simple.UndirectedGraph
	overlay  *simple.UndirectedGraph
}

// New builds the physical and overlay graphs of a parsed topology. Hosts and
// switches share one namespace; every link must join two declared nodes.
func New(cfg *config.Topology) (*Topology, error) {
	t := &Topology{
		cfg:      cfg,
		ids:      make(map[string]int64),
		names:    make(map[int64]string),
		physical: simple.NewUndirectedGraph(),
		overlay:  simple.NewUndirectedGraph(),
	}

	for _, h := range cfg.Hosts {
		if err := t.addNode(h.Name); err != nil {
			return nil, err
		}
	}
	for _, s := range cfg.Switches {
		if err := t.addNode(s.Name); err != nil {
			return nil, err
		}
	}

	for i, l := range cfg.Links {
		from, ok := t.ids[l.Endpoint1]
		if !ok {
			return nil, fmt.Errorf("link[%d] (%s): unknown endpoint '%s'", i, l.Key(), l.Endpoint1)
		}
		to, ok := t.ids[l.Endpoint2]
		if !ok {
			return nil, fmt.Errorf("link[%d] (%s): unknown endpoint '%s'", i, l.Key(), l.Endpoint2)
		}
		if from == to {
			return nil, fmt.Errorf("link[%d] (%s): endpoints must differ", i, l.Key())
		}
		t.physical.SetEdge(t.physical.NewEdge(simple.Node(from), simple.Node(to)))
	}

	for _, n := range cfg.Overlay.Nodes {
		t.overlay.AddNode(simple.Node(t.id(n)))
	}
	for _, p := range cfg.Overlay.Pairs() {
		from, to := t.id(p[0]), t.id(p[1])
		if from == to {
			continue
		}
		t.overlay.SetEdge(t.overlay.NewEdge(simple.Node(from), simple.Node(to)))
	}

	return t, nil
}

// Config returns the parsed configuration the graphs were built from
func (t *Topology) Config() *config.Topology {
	return t.cfg
}

// Pairs returns the node pairs in scope for routing and reachability checks:
// the overlay-adjacent pairs when an overlay is declared, otherwise every
// pair of hosts.
func (t *Topology) Pairs() []Pair {
	var pairs []Pair

	if !t.cfg.Overlay.Empty() {
		for _, p := range t.cfg.Overlay.Pairs() {
			pairs = append(pairs, Pair{A: p[0], B: p[1]})
		}
		return pairs
	}

	hosts := t.cfg.Hosts
	for i := range hosts {
		for j := i + 1; j < len(hosts); j++ {
			pairs = append(pairs, Pair{A: hosts[i].Name, B: hosts[j].Name})
		}
	}
	return pairs
}

// ShortestPath returns the hop-minimal physical path from src to dst,
// inclusive of both ends.
func (t *Topology) ShortestPath(src, dst string) ([]string, error) {
	from, ok := t.physicalNode(src)
	if !ok {
		return nil, fmt.Errorf("unknown node '%s'", src)
	}
	to, ok := t.physicalNode(dst)
	if !ok {
		return nil, fmt.Errorf("unknown node '%s'", dst)
	}

	shortest := path.DijkstraFrom(from, t.physical)
	nodes, _ := shortest.To(to.ID())
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s to %s: %w", src, dst, ErrNoPath)
	}

	return t.nodeNames(nodes), nil
}

// Components returns the connected components of the physical graph. Names
// are sorted within each component and components by their first name.
func (t *Topology) Components() [][]string {
	var components [][]string
	for _, cc := range topo.ConnectedComponents(t.physical) {
		names := t.nodeNames(cc)
		sort.Strings(names)
		components = append(components, names)
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// OverlayNeighbors returns the overlay neighbors of a node, sorted by name.
func (t *Topology) OverlayNeighbors(name string) []string {
	id, ok := t.ids[name]
	if !ok || t.overlay.Node(id) == nil {
		return nil
	}

	names := t.nodeNames(graph.NodesOf(t.overlay.From(id)))
	sort.Strings(names)
	return names
}

// Summary returns node, link and component counts
func (t *Topology) Summary() Summary {
	return Summary{
		Source:       t.cfg.SourcePath,
		Hosts:        len(t.cfg.Hosts),
		Switches:     len(t.cfg.Switches),
		Links:        t.physical.Edges().Len(),
		OverlayNodes: t.overlay.Nodes().Len(),
		OverlayLinks: t.overlay.Edges().Len(),
		Components:   len(t.Components()),
	}
}

// Export writes the parsed configuration in the given format
func (t *Topology) Export(w io.Writer, format string) error {
	return Export(w, t.cfg, format)
}

// Save exports the parsed configuration to a file
func (t *Topology) Save(filename, format string) error {
	return Save(filename, t.cfg, format)
}

// Export writes a parsed configuration in the given format. It needs no
// graph, so configurations with dangling links can still be exported.
func Export(w io.Writer, cfg *config.Topology, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal topology: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal topology: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format '%s' (must be %s or %s)", format, FormatYAML, FormatJSON)
	}
}

// Save exports a parsed configuration to a file
func Save(filename string, cfg *config.Topology, format string) (err error) {
	f, err := os.Create(filename) //nolint:gosec // filename is user-provided CLI input
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	return Export(f, cfg, format)
}

func (t *Topology) addNode(name string) error {
	if _, ok := t.ids[name]; ok {
		return fmt.Errorf("duplicate node name '%s'", name)
	}
	id := t.id(name)
	t.physical.AddNode(simple.Node(id))
	return nil
}

// id returns the graph ID for a name, allocating one on first use
func (t *Topology) id(name string) int64 {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := int64(len(t.ids))
	t.ids[name] = id
	t.names[id] = name
	return id
}

func (t *Topology) physicalNode(name string) (graph.Node, bool) {
	id, ok := t.ids[name]
	if !ok {
		return nil, false
	}
	n := t.physical.Node(id)
	return n, n != nil
}

func (t *Topology) nodeNames(nodes []graph.Node) []string {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, t.names[n.ID()])
	}
	return names
}
