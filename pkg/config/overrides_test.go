package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSetValues(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Override
		wantErr bool
	}{
		{
			name:  "empty",
			input: nil,
			want:  []Override{},
		},
		{
			name:  "host attributes keep inner equals",
			input: []string{"nodes.a=cpu=0.5 app=ping"},
			want:  []Override{{Section: "nodes", Key: "a", Value: "cpu=0.5 app=ping"}},
		},
		{
			name:  "link key and empty value",
			input: []string{"links.a-b=bw=10", "nodes.c="},
			want: []Override{
				{Section: "links", Key: "a-b", Value: "bw=10"},
				{Section: "nodes", Key: "c", Value: ""},
			},
		},
		{
			name:    "missing equals",
			input:   []string{"nodes.a"},
			wantErr: true,
		},
		{
			name:    "missing section",
			input:   []string{"a=cpu=0.5"},
			wantErr: true,
		},
		{
			name:    "empty key",
			input:   []string{"nodes.=x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSetValues(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSetValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSetValues() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	store := mustLoadBytes(t, "[nodes]\na = cpu=0.5\n[links]\n")

	err := ApplyOverrides(store, []Override{
		{Section: "nodes", Key: "a", Value: "cpu=0.25"},
		{Section: "nodes", Key: "b", Value: "app=ping"},
		{Section: "links", Key: "a-b", Value: "bw=5"},
	})
	if err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}

	topo, err := ParseTopology(store)
	if err != nil {
		t.Fatalf("ParseTopology: %v", err)
	}
	if len(topo.Hosts) != 2 || *topo.Hosts[0].CPU != 0.25 || topo.Hosts[1].App != "ping" {
		t.Errorf("Hosts = %+v, want a with cpu 0.25 and b with app ping", topo.Hosts)
	}
	if bw, ok := topo.Links[0].Bandwidth(); !ok || bw != 5 {
		t.Errorf("Bandwidth() = %d, %v, want 5, true", bw, ok)
	}

	err = ApplyOverrides(store, []Override{{Section: "switches", Key: "s1"}})
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("expected ErrSectionNotFound, got %v", err)
	}
}
