package topology

// Pair is an unordered pair of node names within an experiment's scope.
type Pair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// Summary stores counts describing a parsed topology
type Summary struct {
	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
	Hosts        int    `json:"hosts" yaml:"hosts"`
	Switches     int    `json:"switches" yaml:"switches"`
	Links        int    `json:"links" yaml:"links"`
	OverlayNodes int    `json:"overlayNodes" yaml:"overlayNodes"`
	OverlayLinks int    `json:"overlayLinks" yaml:"overlayLinks"`
	Components   int    `json:"components" yaml:"components"`
}
