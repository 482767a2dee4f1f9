package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/tally/internal/config"
	"github.com/dyluth/tally/internal/hostenv"
	"github.com/dyluth/tally/internal/ledger"
	"github.com/dyluth/tally/internal/printer"
	"github.com/dyluth/tally/internal/resolver"
	"github.com/dyluth/tally/pkg/registry"
)

// loadConfig reads tally.yml, applying the --config and --name overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, printer.Error(
			fmt.Sprintf("failed to load %s", path),
			err.Error(),
			[]string{"Run 'tally init' in a directory with a tally.yml, or pass --config."},
		)
	}

	if instanceName != "" {
		if err := config.ValidateInstanceName(instanceName); err != nil {
			return nil, printer.Error("invalid --name", err.Error(), nil)
		}
		cfg.Instance = instanceName
	}

	return cfg, nil
}

// openLedger connects to Redis for the configured instance.
// Caller is responsible for closing the returned ledger.
func openLedger(ctx context.Context) (*ledger.Ledger, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	led, err := ledger.New(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Instance)
	if err != nil {
		return nil, nil, err
	}

	if err := led.Ping(ctx); err != nil {
		led.Close()
		return nil, nil, printer.Error(
			"cannot reach Redis",
			fmt.Sprintf("Failed to ping %s: %v", cfg.Redis.Addr, err),
			[]string{"Check that Redis is running and tally.yml points at it."},
		)
	}

	return led, cfg, nil
}

// openRegistry attaches a registry handle to an initialized instance,
// pinning it to a freshly advanced execution round. Used by mutating
// commands; reads go straight to the ledger.
func openRegistry(ctx context.Context, led *ledger.Ledger) (*registry.Registry, error) {
	round, err := led.NextRound(ctx)
	if err != nil {
		return nil, err
	}

	reg := registry.New(hostenv.New(round), led)
	if err := reg.Open(ctx); err != nil {
		if errors.Is(err, registry.ErrNotInitialized) {
			return nil, errNotInitialized()
		}
		return nil, err
	}
	return reg, nil
}

// resolveCaller picks the caller account: --as flag first, then the
// config default.
func resolveCaller(cfg *config.Config, asFlag string) (registry.AccountID, error) {
	account := asFlag
	if account == "" {
		account = cfg.Account
	}
	if account == "" {
		return "", printer.Error(
			"no caller account",
			"Mutating commands need a caller identity.",
			[]string{"Pass --as <account>, or set 'account:' in tally.yml."},
		)
	}

	caller := registry.AccountID(account)
	if err := caller.Validate(); err != nil {
		return "", printer.Error("invalid caller account", err.Error(), nil)
	}
	return caller, nil
}

// resolveID expands a short identifier prefix into a full counter id.
func resolveID(ctx context.Context, led *ledger.Ledger, arg string) (string, error) {
	id, err := resolver.ResolveCounterID(ctx, led, arg)
	if err != nil {
		var ambErr *resolver.AmbiguousError
		switch {
		case resolver.IsNotFoundError(err):
			return "", errCounterNotFound(arg)
		case errors.As(err, &ambErr):
			return "", printer.Error("ambiguous counter ID", resolver.FormatAmbiguousError(ambErr), nil)
		default:
			return "", err
		}
	}
	return id, nil
}

func errCounterNotFound(id string) error {
	return printer.Error(
		"counter not found",
		fmt.Sprintf("No counter matches '%s' in this instance.", id),
		[]string{"Run 'tally list' to see existing counters."},
	)
}

func errNotInitialized() error {
	return printer.Error(
		"instance not initialized",
		"This tally instance has no entropy pool yet.",
		[]string{"Run 'tally init' first."},
	)
}
