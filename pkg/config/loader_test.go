package config

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestLoadTopology(t *testing.T) {
	path := writeTopology(t, sampleTopology)

	topo, err := LoadTopology(path)
	if err != nil {
		t.Fatalf("LoadTopology: %v", err)
	}

	if topo.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", topo.SourcePath, path)
	}
	if len(topo.Hosts) != 2 || topo.Hosts[0].Name != "a" || topo.Hosts[1].Name != "b" {
		t.Errorf("Hosts = %+v, want a and b", topo.Hosts)
	}
	if !reflect.DeepEqual(topo.Switches, []Switch{{Name: "s1"}}) {
		t.Errorf("Switches = %+v, want [s1]", topo.Switches)
	}
	if len(topo.Links) != 1 || topo.Links[0].Key() != "a-b" {
		t.Errorf("Links = %+v, want [a-b]", topo.Links)
	}
	wantOverlay := Overlay{
		Nodes:     []string{"a", "b"},
		Adjacency: map[string][]string{"a": {"b"}, "b": {"a"}},
	}
	if !reflect.DeepEqual(topo.Overlay, wantOverlay) {
		t.Errorf("Overlay = %+v, want %+v", topo.Overlay, wantOverlay)
	}
}

func TestLoadTopologyIdempotent(t *testing.T) {
	path := writeTopology(t, sampleTopology)

	first, err := LoadTopology(path)
	if err != nil {
		t.Fatalf("LoadTopology: %v", err)
	}
	second, err := LoadTopology(path)
	if err != nil {
		t.Fatalf("LoadTopology: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing twice gave different results:\n%+v\n%+v", first, second)
	}
}

func TestLoadTopologyErrors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantPrefix string
		target     any
	}{
		{
			name:       "missing nodes",
			content:    "[switches]\ns1\n",
			wantPrefix: "failed to parse nodes",
			target:     new(*SectionNotFoundError),
		},
		{
			name:       "duplicate coordinate",
			content:    "[nodes]\na = radius=1 angle=0\nb = radius=1 angle=0\n",
			wantPrefix: "failed to parse nodes",
			target:     new(*DuplicateCoordinateError),
		},
		{
			name:       "bad link key",
			content:    "[nodes]\na =\n[links]\nab = bw=1\n",
			wantPrefix: "failed to parse links",
			target:     new(*MalformedLinkKeyError),
		},
		{
			name:       "overlay link without peer",
			content:    "[nodes]\na =\n[overlay_nodes]\na\n[overlay_links]\na\n",
			wantPrefix: "failed to parse overlay",
			target:     new(*MalformedOverlayLinkError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTopology(writeTopology(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.wantPrefix) {
				t.Errorf("error %q does not start with %q", err, tt.wantPrefix)
			}
			if !errors.As(err, tt.target) {
				t.Errorf("error %v does not match %T", err, tt.target)
			}
		})
	}
}

func TestParseTopologyLogsDiscardedMemory(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "test",
		Level:  hclog.Debug,
		Output: &buf,
	})

	_, err := ParseTopology(mustLoadBytes(t, "[nodes]\nh = mem=512m\n"), WithLogger(logger))
	if err != nil {
		t.Fatalf("ParseTopology: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ignoring memory limit") || !strings.Contains(out, "mem=512m") {
		t.Errorf("expected memory limit debug line, got:\n%s", out)
	}
	if !strings.Contains(out, "parsed hosts") {
		t.Errorf("expected host count debug line, got:\n%s", out)
	}
}
