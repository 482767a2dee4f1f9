package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dyluth/tally/internal/hostenv"
	"github.com/dyluth/tally/internal/printer"
	"github.com/dyluth/tally/pkg/registry"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a tally instance",
	Long: `Initialize the configured tally instance: seed the entropy pool from the
host's weak random source and persist it in Redis.

Initialization happens exactly once per instance. Running init against an
already-initialized instance fails; it never resets the pool, because that
would restart the deterministic entropy chain.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	led, cfg, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer led.Close()

	// The round counter is not mixed in during initialization, only on
	// later reseeds, so the round pin is arbitrary here.
	reg := registry.New(hostenv.New(0), led)
	if err := reg.Init(ctx); err != nil {
		if errors.Is(err, registry.ErrAlreadyInitialized) {
			return printer.Error(
				"instance already initialized",
				"The entropy pool for instance '"+cfg.Instance+"' already exists and cannot be reset.",
				[]string{"Use a different instance name to start a fresh registry."},
			)
		}
		return err
	}

	printer.Success("Initialized tally instance '%s'\n", cfg.Instance)
	printer.Info("  Redis: %s\n", cfg.Redis.Addr)
	return nil
}
