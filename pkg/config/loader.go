package config

import (
	"fmt"
)

// LoadTopology loads a topology configuration file and parses every section
// of it into a Topology.
func LoadTopology(filepath string, opts ...Option) (*Topology, error) {
	store, err := Load(filepath)
	if err != nil {
		return nil, err
	}

	topo, err := ParseTopology(store, opts...)
	if err != nil {
		return nil, err
	}
	topo.SourcePath = filepath

	return topo, nil
}

// ParseTopology parses hosts, switches, links and the overlay from src.
// Errors keep their type and are wrapped with the failing section.
func ParseTopology(src Source, opts ...Option) (*Topology, error) {
	o := newOptions(opts)

	hosts, err := ParseHosts(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SectionNodes, err)
	}
	o.logger.Debug("parsed hosts", "count", len(hosts), "key_match", o.keyMatch.String())

	switches, err := ParseSwitches(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SectionSwitches, err)
	}
	o.logger.Debug("parsed switches", "count", len(switches))

	links, err := ParseLinks(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SectionLinks, err)
	}
	o.logger.Debug("parsed links", "count", len(links))

	overlay, err := ParseOverlay(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overlay: %w", err)
	}
	o.logger.Debug("parsed overlay", "nodes", len(overlay.Nodes), "links", len(overlay.Pairs()))

	return &Topology{
		Hosts:    hosts,
		Switches: switches,
		Links:    links,
		Overlay:  overlay,
	}, nil
}
