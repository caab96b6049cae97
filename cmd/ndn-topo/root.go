package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/jhwagner/ndn-topo/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile        string
	verbose        bool
	logLevel       string
	legacyKeyMatch bool
)

var rootCmd = &cobra.Command{
	Use:   "ndn-topo",
	Short: "Inspect NDN emulation topology files",
	Long: `ndn-topo parses the INI topology files used to describe NDN network
emulation experiments.

It reads hosts, switches, links and the optional overlay, checks them for
consistency, and can export the parsed topology or query paths over it.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ndn-topo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&legacyKeyMatch, "legacy-key-match", false, "match host attribute keys by prefix")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("legacy-key-match", rootCmd.PersistentFlags().Lookup("legacy-key-match"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ndn-topo")
	}

	viper.SetEnvPrefix("ndn_topo")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger. --verbose forces debug output.
func newLogger(w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(viper.GetString("log-level"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	if viper.GetBool("verbose") {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "ndn-topo",
		Level:  level,
		Output: w,
	})
}

// parseOptions returns the parser options selected by global settings
func parseOptions(logger hclog.Logger) []config.Option {
	opts := []config.Option{config.WithLogger(logger)}
	if viper.GetBool("legacy-key-match") {
		opts = append(opts, config.WithKeyMatch(config.MatchPrefix))
	}
	return opts
}
