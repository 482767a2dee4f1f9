package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dyluth/tally/internal/printer"
	"github.com/dyluth/tally/pkg/registry"
)

var (
	incAs string
	decAs string
)

var incCmd = &cobra.Command{
	Use:   "inc <counter-id>",
	Short: "Increment a counter by a pseudo-random amount",
	Long: `Increment a counter by a pseudo-random amount in [0, 256).

Only the counter's owner may mutate it. The amount is drawn from the
entropy pool after it is reseeded with this call's inputs; arithmetic
wraps with int32 semantics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(args[0], incAs, false)
	},
}

var decCmd = &cobra.Command{
	Use:   "dec <counter-id>",
	Short: "Decrement a counter by a pseudo-random amount",
	Long: `Decrement a counter by a pseudo-random amount in [0, 256).

Only the counter's owner may mutate it. The amount is drawn from the
entropy pool after it is reseeded with this call's inputs; arithmetic
wraps with int32 semantics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(args[0], decAs, true)
	},
}

func init() {
	incCmd.Flags().StringVar(&incAs, "as", "", "Caller account (default: account from tally.yml)")
	decCmd.Flags().StringVar(&decAs, "as", "", "Caller account (default: account from tally.yml)")
	rootCmd.AddCommand(incCmd)
	rootCmd.AddCommand(decCmd)
}

func runBump(arg, asFlag string, decrement bool) error {
	ctx := context.Background()

	led, cfg, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer led.Close()

	caller, err := resolveCaller(cfg, asFlag)
	if err != nil {
		return err
	}

	id, err := resolveID(ctx, led, arg)
	if err != nil {
		return err
	}

	before, err := led.GetValue(ctx, id)
	if err != nil {
		if registry.IsNotFound(err) {
			return errCounterNotFound(arg)
		}
		return err
	}

	reg, err := openRegistry(ctx, led)
	if err != nil {
		return err
	}

	if decrement {
		err = reg.Decrement(ctx, caller, id)
	} else {
		err = reg.Increment(ctx, caller, id)
	}
	if err != nil {
		return bumpError(err, caller, arg)
	}

	after, err := led.GetValue(ctx, id)
	if err != nil {
		return err
	}

	delta := uint32(after) - uint32(before)
	verb := "Incremented"
	if decrement {
		delta = -delta
		verb = "Decremented"
	}

	printer.Success("%s %s by %d\n", verb, shortID(id), delta)
	printer.Info("  Value: %d → %d\n", before, after)
	return nil
}

func bumpError(err error, caller registry.AccountID, arg string) error {
	switch {
	case registry.IsNotFound(err):
		return errCounterNotFound(arg)
	case registry.IsNotOwner(err):
		return printer.Error(
			"caller is not the owner",
			"Account '"+string(caller)+"' does not own this counter; only the owner may mutate it.",
			[]string{"Run 'tally owner " + arg + "' to see who does."},
		)
	case errors.Is(err, registry.ErrNotInitialized):
		return errNotInitialized()
	default:
		return err
	}
}

// shortID truncates a counter identifier for display.
func shortID(id string) string {
	if len(id) <= 10 {
		return id
	}
	return id[:10]
}
