package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dyluth/tally/pkg/registry"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all counters in the instance",
	Long: `List every counter in the instance with its value and owner.

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	led, cfg, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer led.Close()

	counters, err := led.ListCounters(ctx)
	if err != nil {
		return err
	}

	// Stable output despite the unordered store.
	sort.Slice(counters, func(i, j int) bool {
		return counters[i].ID < counters[j].ID
	})

	if listJSON {
		return writeJSON(os.Stdout, counters)
	}
	writeTable(os.Stdout, counters, cfg.Instance)
	return nil
}

func writeJSON(w io.Writer, counters []*registry.Counter) error {
	if counters == nil {
		counters = []*registry.Counter{}
	}
	data, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal counters: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeTable(w io.Writer, counters []*registry.Counter, instanceName string) {
	if len(counters) == 0 {
		fmt.Fprintf(w, "No counters found for instance '%s'\n", instanceName)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'tally create' to create one.")
		return
	}

	fmt.Fprintf(w, "%-32s %12s  %s\n", "ID", "VALUE", "OWNER")
	for _, c := range counters {
		fmt.Fprintf(w, "%-32s %12d  %s\n", c.ID, c.Value, c.Owner)
	}

	noun := "counter"
	if len(counters) != 1 {
		noun = "counters"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(counters), noun)
}
