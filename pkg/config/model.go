package config

import (
	"maps"
	"slices"
	"strconv"
)

// Host is an emulated end node declared in the nodes section.
type Host struct {
	Name   string            `yaml:"name" json:"name"`
	App    string            `yaml:"app,omitempty" json:"app,omitempty"`
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	CPU    *float64          `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	Cores  *string           `yaml:"cores,omitempty" json:"cores,omitempty"`
	Cache  *string           `yaml:"cache,omitempty" json:"cache,omitempty"`
}

// Switch is a switch declared in the switches section.
type Switch struct {
	Name string `yaml:"name" json:"name"`
}

// Link attribute names with typed values.
const (
	AttrBandwidth    = "bw"
	AttrJitter       = "jitter"
	AttrMaxQueueSize = "max_queue_size"
	AttrLoss         = "loss"
	AttrDelay        = "delay"
)

// Link is an undirected point-to-point link between two endpoints.
// Attributes holds int values for bw, jitter and max_queue_size, a float64
// for loss and strings for everything else.
type Link struct {
	Endpoint1  string         `yaml:"endpoint1" json:"endpoint1"`
	Endpoint2  string         `yaml:"endpoint2" json:"endpoint2"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Key returns the "<endpoint1>-<endpoint2>" form used in the links section.
func (l *Link) Key() string {
	return l.Endpoint1 + "-" + l.Endpoint2
}

// Bandwidth returns the bw attribute.
func (l *Link) Bandwidth() (int, bool) { return l.intAttr(AttrBandwidth) }

// Jitter returns the jitter attribute.
func (l *Link) Jitter() (int, bool) { return l.intAttr(AttrJitter) }

// MaxQueueSize returns the max_queue_size attribute.
func (l *Link) MaxQueueSize() (int, bool) { return l.intAttr(AttrMaxQueueSize) }

// Loss returns the loss attribute as a percentage.
func (l *Link) Loss() (float64, bool) {
	v, ok := l.Attributes[AttrLoss].(float64)
	return v, ok
}

// Attr returns the attribute formatted as a string, or "" if unset.
func (l *Link) Attr(key string) string {
	switch v := l.Attributes[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

func (l *Link) intAttr(key string) (int, bool) {
	v, ok := l.Attributes[key].(int)
	return v, ok
}

// Overlay is the optional logical topology layered over the physical one.
type Overlay struct {
	Nodes     []string            `yaml:"nodes,omitempty" json:"nodes,omitempty"`
	Adjacency map[string][]string `yaml:"adjacency,omitempty" json:"adjacency,omitempty"`
}

// Empty reports whether no overlay was declared.
func (o *Overlay) Empty() bool {
	return len(o.Nodes) == 0 && len(o.Adjacency) == 0
}

// Adjacent reports whether a and b share an overlay link.
func (o *Overlay) Adjacent(a, b string) bool {
	return slices.Contains(o.Adjacency[a], b)
}

// Pairs returns every overlay edge once, in the order edges are first reached
// from Nodes.
func (o *Overlay) Pairs() [][2]string {
	seen := make(map[[2]string]bool)
	var pairs [][2]string

	visit := func(a string) {
		for _, b := range o.Adjacency[a] {
			if seen[[2]string{a, b}] || seen[[2]string{b, a}] {
				continue
			}
			seen[[2]string{a, b}] = true
			pairs = append(pairs, [2]string{a, b})
		}
	}

	visited := make(map[string]bool, len(o.Nodes))
	for _, n := range o.Nodes {
		visited[n] = true
		visit(n)
	}
	// Links may reference names missing from overlay_nodes.
	for _, n := range slices.Sorted(maps.Keys(o.Adjacency)) {
		if !visited[n] {
			visit(n)
		}
	}
	return pairs
}

// Topology is the parsed model of one topology configuration.
type Topology struct {
	SourcePath string   `yaml:"source,omitempty" json:"source,omitempty"`
	Hosts      []Host   `yaml:"hosts" json:"hosts"`
	Switches   []Switch `yaml:"switches,omitempty" json:"switches,omitempty"`
	Links      []Link   `yaml:"links,omitempty" json:"links,omitempty"`
	Overlay    Overlay  `yaml:"overlay,omitempty" json:"overlay,omitempty"`
}
