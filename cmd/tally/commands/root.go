package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// Persistent flags shared by all subcommands.
var (
	configPath   string
	instanceName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally - registry of entropy-seeded counters",
	Long: `Tally maintains a registry of named counters, each owned by a single
account, whose values change by pseudo-random amounts derived from
continuously mixed environmental entropy.

A single evolving 32-byte seed is the sole source of randomness: it is
re-derived from fresh external inputs before every draw, in a fixed order,
so the sequence of "random" outputs is reproducible from the input
sequence. The outputs are deterministic pseudo-randomness, not
cryptographically secure randomness.

State lives in Redis, namespaced per instance, so multiple projects can
share one server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to tally.yml (default: ./tally.yml)")
	rootCmd.PersistentFlags().StringVarP(&instanceName, "name", "n", "", "Instance name (overrides tally.yml)")
}
