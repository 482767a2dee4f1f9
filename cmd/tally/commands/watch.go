package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/tally/internal/ledger"
	"github.com/dyluth/tally/internal/printer"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow counter events in real time",
	Long: `Subscribe to the instance's counter-events channel and print each
creation and value change as it happens. Stop with Ctrl-C.

Delivery is Redis Pub/Sub (at-most-once): events published while watch is
not running are not replayed.`,
	Args: cobra.NoArgs,
	RunE: runWatchEvents,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchEvents(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	led, cfg, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer led.Close()

	sub, err := led.SubscribeCounterEvents(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	printer.Step("Watching counter events on instance '%s' (Ctrl-C to stop)\n", cfg.Instance)

	for {
		select {
		case <-ctx.Done():
			printer.Info("\nStopped.\n")
			return nil

		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			printer.Warning("skipping event: %v\n", err)

		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			printEvent(ev)
		}
	}
}

func printEvent(ev *ledger.Event) {
	at := time.UnixMilli(ev.AtMs).Format("15:04:05")
	switch ev.Kind {
	case ledger.EventCreated:
		printer.Info("%s  created  %s  value=%d  owner=%s\n", at, shortID(ev.CounterID), ev.Value, ev.Owner)
	case ledger.EventUpdated:
		printer.Info("%s  updated  %s  value=%d\n", at, shortID(ev.CounterID), ev.Value)
	default:
		printer.Info("%s  %s  %s  value=%d\n", at, ev.Kind, shortID(ev.CounterID), ev.Value)
	}
}
