package cli

import (
	"context"
	"io"

	"github.com/angristan/hue-control/internal/api"
	"github.com/angristan/hue-control/internal/config"
)

// demoStore hands out a registered configuration and never touches disk
type demoStore struct{}

func (demoStore) Load() (*config.Config, error) {
	cfg := &config.Config{BridgeIP: "127.0.0.1"}
	cfg.SetKey("demo")
	return cfg, nil
}

func (demoStore) Save(*config.Config) error { return nil }

// NewDemoDriver returns a Driver backed by the in-memory demo bridge
func NewDemoDriver(out io.Writer) *Driver {
	bridge := api.NewDemoBridge()
	return &Driver{
		Store: demoStore{},
		NewClient: func(host, key string) (api.BridgeClient, error) {
			return bridge, nil
		},
		Discover: func(ctx context.Context) (string, error) {
			return bridge.Host(), nil
		},
		Out: out,
	}
}
