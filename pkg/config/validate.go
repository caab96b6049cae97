package config

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	maxLossPercent = 100
)

// ValidateTopology cross-checks a parsed topology: names must be unique
// across hosts and switches, links and overlay entries must reference
// declared nodes, and attribute values must be in range.
func ValidateTopology(t *Topology) error {
	if len(t.Hosts) == 0 {
		return fmt.Errorf("at least one host is required")
	}

	nodeKinds := make(map[string]string, len(t.Hosts)+len(t.Switches))
	for i, host := range t.Hosts {
		if err := validateHost(&host, i); err != nil {
			return err
		}
		nodeKinds[host.Name] = "host"
	}

	for i, sw := range t.Switches {
		if sw.Name == "" {
			return fmt.Errorf("switch[%d]: name is required", i)
		}
		if kind, ok := nodeKinds[sw.Name]; ok {
			return fmt.Errorf("switch[%d] (%s): name conflicts with an existing %s", i, sw.Name, kind)
		}
		nodeKinds[sw.Name] = "switch"
	}

	for i, link := range t.Links {
		if err := validateLink(&link, i, nodeKinds); err != nil {
			return err
		}
	}

	if err := validateOverlay(&t.Overlay, nodeKinds); err != nil {
		return err
	}

	return nil
}

func validateHost(h *Host, index int) error {
	if h.Name == "" {
		return fmt.Errorf("host[%d]: name is required", index)
	}

	if h.CPU != nil && (*h.CPU <= 0 || *h.CPU > 1) {
		return fmt.Errorf("host[%d] (%s): cpu %g out of range (must be > 0 and <= 1)", index, h.Name, *h.CPU)
	}

	if h.Cache != nil {
		if _, err := resource.ParseQuantity(*h.Cache); err != nil {
			return fmt.Errorf("host[%d] (%s): invalid cache size: %w", index, h.Name, err)
		}
	}

	return nil
}

func validateLink(l *Link, index int, nodeKinds map[string]string) error {
	if l.Endpoint1 == l.Endpoint2 {
		return fmt.Errorf("link[%d] (%s): endpoints must differ", index, l.Key())
	}

	for _, ep := range []string{l.Endpoint1, l.Endpoint2} {
		if _, ok := nodeKinds[ep]; !ok {
			return fmt.Errorf("link[%d] (%s): unknown endpoint '%s'", index, l.Key(), ep)
		}
	}

	for _, attr := range []string{AttrBandwidth, AttrJitter, AttrMaxQueueSize} {
		if v, ok := l.intAttr(attr); ok && v < 0 {
			return fmt.Errorf("link[%d] (%s): %s must be >= 0", index, l.Key(), attr)
		}
	}

	if loss, ok := l.Loss(); ok && (loss < 0 || loss > maxLossPercent) {
		return fmt.Errorf("link[%d] (%s): loss %g out of range (must be between 0 and %d)",
			index, l.Key(), loss, maxLossPercent)
	}

	if delay := l.Attr(AttrDelay); delay != "" {
		if _, err := time.ParseDuration(delay); err != nil {
			return fmt.Errorf("link[%d] (%s): invalid delay: %w", index, l.Key(), err)
		}
	}

	return nil
}

func validateOverlay(o *Overlay, nodeKinds map[string]string) error {
	overlayNodes := make(map[string]bool, len(o.Nodes))
	for i, name := range o.Nodes {
		if nodeKinds[name] != "host" {
			return fmt.Errorf("overlay node[%d]: '%s' is not a declared host", i, name)
		}
		overlayNodes[name] = true
	}

	for i, pair := range o.Pairs() {
		for _, name := range pair {
			if !overlayNodes[name] {
				return fmt.Errorf("overlay link[%d] (%s-%s): unknown overlay node '%s'", i, pair[0], pair[1], name)
			}
		}
	}

	return nil
}
