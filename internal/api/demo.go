package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/angristan/hue-control/internal/models"
)

// DemoBridge implements BridgeClient for demo mode without a real Hue bridge.
// All state changes are maintained in memory.
type DemoBridge struct {
	lights []*models.Light
	mu     sync.RWMutex
}

// NewDemoBridge creates a demo bridge with sample data
func NewDemoBridge() *DemoBridge {
	return &DemoBridge{lights: demoLights()}
}

// Host returns the demo bridge host
func (d *DemoBridge) Host() string {
	return "demo-bridge.local"
}

// RegisterApplication always succeeds in demo mode
func (d *DemoBridge) RegisterApplication(ctx context.Context, appName string) (string, error) {
	return "demo-" + appName, nil
}

// GetLights returns copies of the demo lights
func (d *DemoBridge) GetLights(ctx context.Context) ([]*models.Light, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lights := make([]*models.Light, len(d.lights))
	for i, l := range d.lights {
		lights[i] = l.Clone()
	}
	return lights, nil
}

// UpdateLight stores the light's changed fields
func (d *DemoBridge) UpdateLight(ctx context.Context, light *models.Light) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, stored := range d.lights {
		if stored.ID != light.ID {
			continue
		}
		if light.Changed(models.FieldBrightness) && light.Brightness > 100 {
			return &UpdateError{LightID: light.ID, Message: fmt.Sprintf("brightness %v out of range", light.Brightness)}
		}
		if light.Changed(models.FieldOn) {
			stored.On = light.On
		}
		if light.Changed(models.FieldBrightness) {
			stored.Brightness = light.Brightness
		}
		if light.Changed(models.FieldColorTemperature) {
			stored.ColorTemperature = light.ColorTemperature
			stored.Color = models.RGBFromMirek(light.ColorTemperature)
		}
		if light.Changed(models.FieldColor) {
			stored.Color = light.Color
		}
		light.ClearChanges()
		return nil
	}

	return &UpdateError{LightID: light.ID, Message: "resource not found"}
}

// demoLights creates the sample lights
func demoLights() []*models.Light {
	colorLight := func(id, name string, on bool, brightness float64, color models.RGB) *models.Light {
		return &models.Light{
			ID:                  id,
			Name:                name,
			On:                  on,
			Brightness:          brightness,
			MinBrightness:       0.2,
			Color:               color,
			MinColorTemperature: 153,
			MaxColorTemperature: 500,
			SupportsColor:       true,
			SupportsColorTemp:   true,
			SupportsDimming:     true,
		}
	}

	return []*models.Light{
		colorLight("light-lr-ceiling", "Ceiling Light", true, 80, models.RGBFromMirek(326)),
		colorLight("light-lr-floor", "Floor Lamp", true, 60, models.RGBFromMirek(400)),
		colorLight("light-lr-tv-bias", "TV Bias Light", true, 40, models.RGBFromXY(0.15, 0.06)),
		colorLight("light-lr-accent", "Accent Strip", false, 0, models.RGBFromXY(0.64, 0.33)),
		colorLight("light-br-left", "Bedside Left", true, 30, models.RGBFromMirek(454)),
		colorLight("light-br-right", "Bedside Right", false, 0, models.RGBFromMirek(400)),
		{
			ID:                  "light-br-ceiling",
			Name:                "Ceiling Light",
			Color:               models.RGBFromMirek(326),
			MinBrightness:       1,
			MinColorTemperature: 153,
			MaxColorTemperature: 454,
			SupportsColorTemp:   true,
			SupportsDimming:     true,
		},
		{
			ID:    "light-of-plug",
			Name:  "Office Plug",
			On:    true,
			Color: models.White,
		},
	}
}
