package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/tally/internal/printer"
	"github.com/dyluth/tally/pkg/registry"
)

var getCmd = &cobra.Command{
	Use:   "get <counter-id>",
	Short: "Print a counter's value",
	Long: `Print a counter's current value.

Accepts a full 32-character identifier or a unique prefix of at least 6
characters. Pure read: no entropy is consumed.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var ownerCmd = &cobra.Command{
	Use:   "owner <counter-id>",
	Short: "Print a counter's owner",
	Long: `Print the account that owns a counter. The owner is recorded at creation
and never changes.

Accepts a full 32-character identifier or a unique prefix of at least 6
characters. Pure read: no entropy is consumed.`,
	Args: cobra.ExactArgs(1),
	RunE: runOwner,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(ownerCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	led, _, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer led.Close()

	id, err := resolveID(ctx, led, args[0])
	if err != nil {
		return err
	}

	value, err := led.GetValue(ctx, id)
	if err != nil {
		if registry.IsNotFound(err) {
			return errCounterNotFound(args[0])
		}
		return err
	}

	printer.Printf("%d\n", value)
	return nil
}

func runOwner(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	led, _, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer led.Close()

	id, err := resolveID(ctx, led, args[0])
	if err != nil {
		return err
	}

	owner, err := led.GetOwner(ctx, id)
	if err != nil {
		if registry.IsNotFound(err) {
			return errCounterNotFound(args[0])
		}
		return err
	}

	printer.Println(string(owner))
	return nil
}
