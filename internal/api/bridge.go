package api

import (
	"context"

	"github.com/angristan/hue-control/internal/models"
)

// BridgeClient defines the interface for interacting with a Hue bridge.
type BridgeClient interface {
	// RegisterApplication obtains an application key from the bridge
	RegisterApplication(ctx context.Context, appName string) (string, error)

	// GetLights returns a snapshot of every light on the bridge
	GetLights(ctx context.Context) ([]*models.Light, error)

	// UpdateLight pushes the light's changed fields
	UpdateLight(ctx context.Context, light *models.Light) error

	Host() string
}

// Compile-time check that HueBridge implements BridgeClient
var _ BridgeClient = (*HueBridge)(nil)

var _ BridgeClient = (*DemoBridge)(nil)
