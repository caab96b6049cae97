package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jhwagner/ndn-topo/pkg/config"
	"github.com/jhwagner/ndn-topo/pkg/topology"
	"github.com/spf13/cobra"
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Inspect topology files",
	Long:  `Show, validate, export and query NDN topology files.`,
}

var topologyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a parsed topology",
	Long: `Parse a topology file and print its hosts, switches, links and
overlay as tables.`,
	Args: cobra.NoArgs,
	RunE: runTopologyShow,
}

var topologyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a topology file",
	Long: `Parse a topology file and check it for consistency.

This checks that:
  - Link endpoints are declared hosts or switches
  - Overlay nodes are declared hosts
  - Host and link attribute values are in range`,
	Args: cobra.NoArgs,
	RunE: runTopologyValidate,
}

var topologyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a parsed topology as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runTopologyExport,
}

var topologyPairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "List the node pairs in scope for reachability tests",
	Long: `List overlay-adjacent node pairs, or every pair of hosts when the
topology declares no overlay.`,
	Args: cobra.NoArgs,
	RunE: runTopologyPairs,
}

var topologyPathCmd = &cobra.Command{
	Use:   "path SRC DST",
	Short: "Print the shortest physical path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopologyPath,
}

var (
	topologyFile string
	setValues    []string
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(topologyCmd)
	for _, cmd := range []*cobra.Command{
		topologyShowCmd,
		topologyValidateCmd,
		topologyExportCmd,
		topologyPairsCmd,
		topologyPathCmd,
	} {
		topologyCmd.AddCommand(cmd)
		cmd.Flags().StringVarP(&topologyFile, "file", "f", "", "path to topology configuration file (required)")
		_ = cmd.MarkFlagRequired("file")
		cmd.Flags().StringArrayVar(&setValues, "set", nil, "override an entry before parsing (section.key=value, repeatable)")
	}

	// Flags for export command
	topologyExportCmd.Flags().StringVar(&exportFormat, "format", topology.FormatYAML, "export format (yaml or json)")
	topologyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}

// loadConfig parses the file named by --file after applying --set overrides
func loadConfig(cmd *cobra.Command) (*config.Topology, error) {
	logger := newLogger(cmd.ErrOrStderr())

	store, err := config.Load(topologyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load topology: %w", err)
	}

	overrides, err := config.ParseSetValues(setValues)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(store, overrides); err != nil {
		return nil, err
	}
	logger.Debug("applied overrides", "count", len(overrides))

	cfg, err := config.ParseTopology(store, parseOptions(logger)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load topology: %w", err)
	}
	cfg.SourcePath = topologyFile
	return cfg, nil
}

// loadTopology parses the file named by --file and builds its graph view
func loadTopology(cmd *cobra.Command) (*topology.Topology, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	topo, err := topology.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build topology graph: %w", err)
	}
	return topo, nil
}

func runTopologyShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "HOST\tAPP\tCPU\tCORES\tCACHE\tPARAMS")
	fmt.Fprintln(w, "----\t---\t---\t-----\t-----\t------")
	for _, h := range cfg.Hosts {
		cpu := "-"
		if h.CPU != nil {
			cpu = strconv.FormatFloat(*h.CPU, 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.Name,
			orDash(h.App),
			cpu,
			orDash(deref(h.Cores)),
			orDash(deref(h.Cache)),
			orDash(formatParams(h.Params)))
	}
	w.Flush()

	if len(cfg.Switches) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SWITCH")
		fmt.Fprintln(w, "------")
		for _, s := range cfg.Switches {
			fmt.Fprintln(w, s.Name)
		}
		w.Flush()
	}

	if len(cfg.Links) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "LINK\tBW\tDELAY\tLOSS\tJITTER\tQUEUE")
		fmt.Fprintln(w, "----\t--\t-----\t----\t------\t-----")
		for _, l := range cfg.Links {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				l.Key(),
				orDash(l.Attr(config.AttrBandwidth)),
				orDash(l.Attr(config.AttrDelay)),
				orDash(l.Attr(config.AttrLoss)),
				orDash(l.Attr(config.AttrJitter)),
				orDash(l.Attr(config.AttrMaxQueueSize)))
		}
		w.Flush()
	}

	if !cfg.Overlay.Empty() {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "OVERLAY NODE\tNEIGHBORS")
		fmt.Fprintln(w, "------------\t---------")
		for _, n := range cfg.Overlay.Nodes {
			fmt.Fprintf(w, "%s\t%s\n", n, orDash(strings.Join(overlayNeighbors(cfg.Overlay, n), ",")))
		}
		w.Flush()
	}

	return nil
}

func runTopologyValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := config.ValidateTopology(cfg); err != nil {
		return fmt.Errorf("topology validation failed: %w", err)
	}

	topo, err := topology.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build topology graph: %w", err)
	}

	s := topo.Summary()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Topology '%s' is valid (%d hosts, %d switches, %d links, %d components)\n",
		topologyFile, s.Hosts, s.Switches, s.Links, s.Components)
	return nil
}

func runTopologyExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		return topology.Export(cmd.OutOrStdout(), cfg, exportFormat)
	}

	if err := topology.Save(exportOutput, cfg, exportFormat); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Topology exported to '%s'\n", exportOutput)
	return nil
}

func runTopologyPairs(cmd *cobra.Command, args []string) error {
	topo, err := loadTopology(cmd)
	if err != nil {
		return err
	}

	pairs := topo.Pairs()
	if len(pairs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pairs found")
		return nil
	}

	printPairs(cmd.OutOrStdout(), pairs)
	return nil
}

func runTopologyPath(cmd *cobra.Command, args []string) error {
	topo, err := loadTopology(cmd)
	if err != nil {
		return err
	}

	nodes, err := topo.ShortestPath(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(nodes, " -> "))
	return nil
}

func printPairs(out io.Writer, pairs []topology.Pair) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NODE\tPEER")
	fmt.Fprintln(w, "----\t----")
	for _, p := range pairs {
		fmt.Fprintf(w, "%s\t%s\n", p.A, p.B)
	}
	w.Flush()
}

func formatParams(params map[string]string) string {
	parts := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, ",")
}

// overlayNeighbors returns the distinct neighbors of an overlay node, sorted
func overlayNeighbors(o config.Overlay, name string) []string {
	return slices.Compact(slices.Sorted(slices.Values(o.Adjacency[name])))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
