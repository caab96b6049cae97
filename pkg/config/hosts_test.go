package config

import (
	"errors"
	"reflect"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestParseHosts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    []Option
		want    []Host
	}{
		{
			name:    "sample nodes",
			content: sampleTopology,
			want: []Host{
				{Name: "a", App: "ping", CPU: ptr(0.5), Params: map[string]string{}},
				{Name: "b", Params: map[string]string{}},
			},
		},
		{
			name:    "bare key has no attributes",
			content: "[nodes]\nc\n",
			want:    []Host{{Name: "c", Params: map[string]string{}}},
		},
		{
			name:    "explicit no-app sentinel",
			content: "[nodes]\nc = _ x=y\n",
			want:    []Host{{Name: "c", Params: map[string]string{"x": "y"}}},
		},
		{
			name:    "cpu cores and free-form params",
			content: "[nodes]\nh = cpu=1.5 cores=0-1 x=y\n",
			want: []Host{
				{Name: "h", CPU: ptr(1.5), Cores: ptr("0-1"), Params: map[string]string{"x": "y"}},
			},
		},
		{
			name:    "cache kept as string and mem discarded",
			content: "[nodes]\nh = cache=65536 mem=256m app=nfd\n",
			want: []Host{
				{Name: "h", App: "nfd", Cache: ptr("65536"), Params: map[string]string{}},
			},
		},
		{
			name:    "quoted values are shell tokenized",
			content: "[nodes]\nh = app=\"ping -c 3\" label='edge node'\n",
			want: []Host{
				{Name: "h", App: "ping -c 3", Params: map[string]string{"label": "edge node"}},
			},
		},
		{
			name:    "value keeps text after a second equals sign",
			content: "[nodes]\nh = args=--rate=10\n",
			want: []Host{
				{Name: "h", Params: map[string]string{"args": "--rate=10"}},
			},
		},
		{
			name:    "exact matching keeps lookalike keys as params",
			content: "[nodes]\nh = cpubudget=1 application=x\n",
			want: []Host{
				{Name: "h", Params: map[string]string{"cpubudget": "1", "application": "x"}},
			},
		},
		{
			name:    "prefix matching treats lookalike keys as keywords",
			content: "[nodes]\nh = cpubudget=1 application=x\n",
			opts:    []Option{WithKeyMatch(MatchPrefix)},
			want: []Host{
				{Name: "h", App: "x", CPU: ptr(1.0), Params: map[string]string{}},
			},
		},
		{
			name:    "prefix matching cuts value at second equals sign",
			content: "[nodes]\nh = args=--rate=10 _anything\n",
			opts:    []Option{WithKeyMatch(MatchPrefix)},
			want: []Host{
				{Name: "h", Params: map[string]string{"args": "--rate"}},
			},
		},
		{
			name:    "distinct coordinates",
			content: "[nodes]\na = radius=0.5 angle=1.0\nb = radius=0.5 angle=2.0\n",
			want: []Host{
				{Name: "a", Params: map[string]string{"radius": "0.5", "angle": "1.0"}},
				{Name: "b", Params: map[string]string{"radius": "0.5", "angle": "2.0"}},
			},
		},
		{
			name:    "source order preserved",
			content: "[nodes]\nz =\ny =\nx =\n",
			want: []Host{
				{Name: "z", Params: map[string]string{}},
				{Name: "y", Params: map[string]string{}},
				{Name: "x", Params: map[string]string{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHosts(mustLoadBytes(t, tt.content), tt.opts...)
			if err != nil {
				t.Fatalf("ParseHosts: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHosts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHostsDuplicateCoordinate(t *testing.T) {
	content := "[nodes]\na = radius=0.5 angle=1.0\nb = app=x\nc = radius=0.5 angle=1.0\n"

	hosts, err := ParseHosts(mustLoadBytes(t, content))
	if hosts != nil {
		t.Errorf("expected no hosts on failure, got %+v", hosts)
	}

	var dup *DuplicateCoordinateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateCoordinateError, got %v", err)
	}
	if dup.Value != "radius=0.5 angle=1.0" {
		t.Errorf("Value = %q, want %q", dup.Value, "radius=0.5 angle=1.0")
	}
	if !reflect.DeepEqual(dup.Nodes, []string{"a", "c"}) {
		t.Errorf("Nodes = %v, want [a c]", dup.Nodes)
	}
}

func TestParseHostsDuplicateCoordinateReportedBeforeTokenErrors(t *testing.T) {
	content := "[nodes]\na = app=\"unterminated\nb = radius=1\nc = radius=1\n"

	_, err := ParseHosts(mustLoadBytes(t, content))
	var dup *DuplicateCoordinateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateCoordinateError, got %v", err)
	}
}

func TestParseHostsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing nodes section",
			content: "[switches]\ns1\n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrSectionNotFound) {
					t.Errorf("expected ErrSectionNotFound, got %v", err)
				}
			},
		},
		{
			name:    "non-numeric cpu",
			content: "[nodes]\nh = cpu=half\n",
			check: func(t *testing.T, err error) {
				var ive *InvalidAttributeValueError
				if !errors.As(err, &ive) {
					t.Fatalf("expected InvalidAttributeValueError, got %v", err)
				}
				if ive.Key != "h" || ive.Attribute != "cpu" || ive.Value != "half" {
					t.Errorf("unexpected error fields: %+v", ive)
				}
			},
		},
		{
			name:    "bare token",
			content: "[nodes]\nh = app=x standalone\n",
			check: func(t *testing.T, err error) {
				var mae *MalformedAttributeError
				if !errors.As(err, &mae) {
					t.Fatalf("expected MalformedAttributeError, got %v", err)
				}
				if mae.Token != "standalone" {
					t.Errorf("Token = %q, want standalone", mae.Token)
				}
			},
		},
		{
			name:    "empty attribute name",
			content: "[nodes]\nh = =x\n",
			check: func(t *testing.T, err error) {
				var mae *MalformedAttributeError
				if !errors.As(err, &mae) {
					t.Fatalf("expected MalformedAttributeError, got %v", err)
				}
			},
		},
		{
			name:    "unterminated quote",
			content: "[nodes]\nh = app=\"ping\n",
			check: func(t *testing.T, err error) {
				var mae *MalformedAttributeError
				if !errors.As(err, &mae) {
					t.Fatalf("expected MalformedAttributeError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHosts(mustLoadBytes(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			tt.check(t, err)
		})
	}
}

func TestParseHostsDoesNotMutateStore(t *testing.T) {
	s := mustLoadBytes(t, "[nodes]\na =\nb\n")

	if _, err := ParseHosts(s); err != nil {
		t.Fatalf("ParseHosts: %v", err)
	}

	items, err := s.Items(SectionNodes)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	want := []Item{{Key: "a", Value: ""}, {Key: "b", Value: ""}}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("store changed after parsing: %+v", items)
	}
}
