// Package cli wires configuration, the bridge client, argument parsing and
// update planning into the hue-control command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/hue-control/internal/api"
	"github.com/angristan/hue-control/internal/argparse"
	"github.com/angristan/hue-control/internal/config"
	"github.com/angristan/hue-control/internal/planner"
)

// AppName is the device type registered with the bridge
const AppName = "hue-control"

const discoveryTimeout = 5 * time.Second

// ConfigStore loads and persists the bridge configuration
type ConfigStore interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// ClientFactory builds a bridge client for the given host and key
type ClientFactory func(host, key string) (api.BridgeClient, error)

// DiscoverFunc finds a bridge on the local network and returns its host
type DiscoverFunc func(ctx context.Context) (string, error)

// Driver runs a single hue-control invocation
type Driver struct {
	Store     ConfigStore
	NewClient ClientFactory
	Discover  DiscoverFunc
	Out       io.Writer
}

// NewDriver returns a Driver talking to a real bridge
func NewDriver(store ConfigStore, out io.Writer) *Driver {
	return &Driver{
		Store:     store,
		NewClient: NewHueClient,
		Discover: func(ctx context.Context) (string, error) {
			return api.DiscoverBridge(ctx, discoveryTimeout)
		},
		Out: out,
	}
}

// NewHueClient is the default ClientFactory
func NewHueClient(host, key string) (api.BridgeClient, error) {
	b, err := api.NewHueBridge(host, key)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Run executes argv (argv[0] is the program name) and returns the exit code
func (d *Driver) Run(ctx context.Context, argv []string) int {
	program := AppName
	if len(argv) > 0 {
		program = argv[0]
	}

	cfg, err := d.Store.Load()
	if err != nil {
		d.println(fmt.Sprintf("Error loading config: %v", err))
		return 1
	}

	if cfg.BridgeIP == "" {
		host, err := d.Discover(ctx)
		if err != nil {
			d.println(fmt.Sprintf("No bridge configured and none found on the network: %v", err))
			return 1
		}
		log.Info().Str("host", host).Msg("Discovered bridge")
		cfg.BridgeIP = host
	}

	client, err := d.NewClient(cfg.BridgeIP, cfg.KeyOrEmpty())
	if err != nil {
		d.println(err.Error())
		return 1
	}

	if !cfg.HasKey() {
		if code, ok := d.register(ctx, client, cfg); !ok {
			return code
		}
	}

	lights, err := client.GetLights(ctx)
	if err != nil {
		d.println(fmt.Sprintf("Failed to read lights: %v", err))
		return 1
	}

	intent := argparse.Parse(argv)

	if intent.Help {
		PrintHelp(d.Out, program)
		return 0
	}

	if intent.List {
		PrintLights(d.Out, lights)
		return 0
	}

	if intent.TargetName == "" {
		PrintHelp(d.Out, program)
		return 0
	}

	for _, light := range lights {
		if !planner.Matches(intent, *light) {
			continue
		}

		mutations, messages := planner.Plan(intent, *light)
		updated := light.Clone()
		planner.Apply(updated, mutations)
		for _, m := range messages {
			d.println(m)
		}

		if err := client.UpdateLight(ctx, updated); err != nil {
			log.Debug().Err(err).Str("light", light.ID).Msg("Update failed")
			d.println(fmt.Sprintf("Hue threw an error: %v", err))
		}
	}

	return 0
}

// register obtains an application key and persists it.
// ok is false when the run must stop with code.
func (d *Driver) register(ctx context.Context, client api.BridgeClient, cfg *config.Config) (code int, ok bool) {
	key, err := client.RegisterApplication(ctx, AppName)
	switch {
	case errors.Is(err, api.ErrLinkButtonNotPressed):
		d.println("Press the link button on your hub and run this command again.")
		return 1, false
	case errors.Is(err, api.ErrBridgeUnavailable):
		d.println(fmt.Sprintf("Bridge on ip %s is not available.\nCheck your configuration and if the bridge is actually up!", cfg.BridgeIP))
		return 1, false
	case err != nil:
		d.println(fmt.Sprintf("Registration failed: %v", err))
		return 1, false
	}

	cfg.SetKey(key)
	if err := d.Store.Save(cfg); err != nil {
		log.Warn().Err(err).Msg("Failed to save config")
	}
	return 0, true
}

func (d *Driver) println(s string) {
	_, _ = fmt.Fprintln(d.Out, s)
}
