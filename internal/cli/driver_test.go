package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angristan/hue-control/internal/api"
	"github.com/angristan/hue-control/internal/config"
	"github.com/angristan/hue-control/internal/models"
)

type memoryStore struct {
	cfg     *config.Config
	loadErr error
	saveErr error
	saves   int
}

func (s *memoryStore) Load() (*config.Config, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	c := *s.cfg
	return &c, nil
}

func (s *memoryStore) Save(cfg *config.Config) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	c := *cfg
	s.cfg = &c
	return nil
}

type fakeBridge struct {
	lights      []*models.Light
	registerKey string
	registerErr error
	lightsErr   error
	updateErrs  map[string]error

	registered []string
	updated    []*models.Light
}

func (f *fakeBridge) RegisterApplication(ctx context.Context, appName string) (string, error) {
	f.registered = append(f.registered, appName)
	return f.registerKey, f.registerErr
}

func (f *fakeBridge) GetLights(ctx context.Context) ([]*models.Light, error) {
	return f.lights, f.lightsErr
}

func (f *fakeBridge) UpdateLight(ctx context.Context, light *models.Light) error {
	f.updated = append(f.updated, light)
	return f.updateErrs[light.ID]
}

func (f *fakeBridge) Host() string { return "192.168.1.2" }

func keyed(ip, key string) *config.Config {
	cfg := &config.Config{BridgeIP: ip}
	cfg.SetKey(key)
	return cfg
}

func newTestDriver(store *memoryStore, bridge *fakeBridge) (*Driver, *bytes.Buffer) {
	var out bytes.Buffer
	return &Driver{
		Store: store,
		NewClient: func(host, key string) (api.BridgeClient, error) {
			return bridge, nil
		},
		Discover: func(ctx context.Context) (string, error) {
			return "", api.ErrNoBridges
		},
		Out: &out,
	}, &out
}

func sampleLights() []*models.Light {
	return []*models.Light{
		{ID: "1", Name: "Kitchen", On: false, MinBrightness: 1, MinColorTemperature: 153, MaxColorTemperature: 500},
		{ID: "2", Name: "Desk", On: true, Brightness: 50, MinBrightness: 1, Color: models.RGB{R: 255, G: 0, B: 255}},
	}
}

func TestRunToggle(t *testing.T) {
	bridge := &fakeBridge{lights: sampleLights()}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "kitchen"})

	assert.Equal(t, 0, code)
	assert.Equal(t, "Turning light kitchen on\n", out.String())
	require.Len(t, bridge.updated, 1)
	assert.Equal(t, "1", bridge.updated[0].ID)
	assert.True(t, bridge.updated[0].On)
	assert.True(t, bridge.updated[0].Changed(models.FieldOn))
	assert.False(t, bridge.lights[0].On, "bridge snapshot is not mutated")
}

func TestRunSetsBrightnessAndColor(t *testing.T) {
	bridge := &fakeBridge{lights: sampleLights()}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "Desk", "#112233", "-b", "+10"})

	assert.Equal(t, 0, code)
	assert.Equal(t, "Setting color to #112233 (17, 34, 51)\nSetting brightness: 60\n", out.String())
	require.Len(t, bridge.updated, 1)
	assert.Equal(t, 60.0, bridge.updated[0].Brightness)
	assert.Equal(t, models.RGB{R: 0x11, G: 0x22, B: 0x33}, bridge.updated[0].Color)
}

func TestRunOffLightStateChangeIsSilent(t *testing.T) {
	bridge := &fakeBridge{lights: sampleLights()}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "Kitchen", "#112233"})

	assert.Equal(t, 0, code)
	assert.Empty(t, out.String())
	require.Len(t, bridge.updated, 1)
	assert.False(t, bridge.updated[0].HasChanges())
}

func TestRunUpdatesEveryMatchingLight(t *testing.T) {
	bridge := &fakeBridge{
		lights: []*models.Light{
			{ID: "1", Name: "Lamp"},
			{ID: "2", Name: "Other"},
			{ID: "3", Name: "LAMP"},
		},
		updateErrs: map[string]error{"1": &api.UpdateError{LightID: "1", Message: "device unreachable"}},
	}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "--on", "lamp"})

	assert.Equal(t, 0, code)
	assert.Equal(t,
		"Turning light lamp on\nHue threw an error: device unreachable\nTurning light lamp on\n",
		out.String())
	require.Len(t, bridge.updated, 2)
	assert.Equal(t, "1", bridge.updated[0].ID)
	assert.Equal(t, "3", bridge.updated[1].ID)
}

func TestRunHelp(t *testing.T) {
	bridge := &fakeBridge{lights: sampleLights()}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "Kitchen", "--list", "-h"})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Usage: hue-control <name> <color> [--options]")
	assert.NotContains(t, out.String(), "[OFF]")
	assert.Empty(t, bridge.updated)
}

func TestRunList(t *testing.T) {
	bridge := &fakeBridge{lights: sampleLights()}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "Kitchen", "-l"})

	assert.Equal(t, 0, code)
	assert.Equal(t, "[OFF] Kitchen\n[ON ] Desk: #FF00FF (Brightness 50)\n", out.String())
	assert.Empty(t, bridge.updated)
}

func TestRunWithoutNamePrintsHelp(t *testing.T) {
	bridge := &fakeBridge{lights: sampleLights()}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "--on"})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Usage: hue-control")
	assert.Empty(t, bridge.updated)
}

func TestRunRegistersAndSavesKey(t *testing.T) {
	store := &memoryStore{cfg: &config.Config{BridgeIP: "192.168.1.2"}}
	bridge := &fakeBridge{lights: sampleLights(), registerKey: "fresh-key"}
	d, _ := newTestDriver(store, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "-l"})

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"hue-control"}, bridge.registered)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "fresh-key", store.cfg.KeyOrEmpty())
	assert.Equal(t, "192.168.1.2", store.cfg.BridgeIP)
}

func TestRunDoesNotSaveWhenKeyPresent(t *testing.T) {
	store := &memoryStore{cfg: keyed("192.168.1.2", "key")}
	bridge := &fakeBridge{lights: sampleLights()}
	d, _ := newTestDriver(store, bridge)

	assert.Equal(t, 0, d.Run(context.Background(), []string{"hue-control", "Desk"}))
	assert.Empty(t, bridge.registered)
	assert.Zero(t, store.saves)
}

func TestRunSaveFailureIsNotFatal(t *testing.T) {
	store := &memoryStore{cfg: &config.Config{BridgeIP: "192.168.1.2"}, saveErr: errors.New("read-only")}
	bridge := &fakeBridge{lights: sampleLights(), registerKey: "fresh-key"}
	d, out := newTestDriver(store, bridge)

	code := d.Run(context.Background(), []string{"hue-control", "-l"})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "[ON ] Desk")
}

func TestRunRegistrationFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "link button",
			err:  api.ErrLinkButtonNotPressed,
			want: "Press the link button on your hub and run this command again.\n",
		},
		{
			name: "unavailable",
			err:  errors.Join(api.ErrBridgeUnavailable, errors.New("connection refused")),
			want: "Bridge on ip 192.168.1.2 is not available.\nCheck your configuration and if the bridge is actually up!\n",
		},
		{
			name: "other",
			err:  errors.New("pairing error: invalid value"),
			want: "Registration failed: pairing error: invalid value\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{cfg: &config.Config{BridgeIP: "192.168.1.2"}}
			bridge := &fakeBridge{lights: sampleLights(), registerErr: tt.err}
			d, out := newTestDriver(store, bridge)

			code := d.Run(context.Background(), []string{"hue-control", "Kitchen"})

			assert.Equal(t, 1, code)
			assert.Equal(t, tt.want, out.String())
			assert.Zero(t, store.saves)
			assert.Empty(t, bridge.updated)
		})
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	d, out := newTestDriver(&memoryStore{cfg: keyed("not-an-ip", "key")}, &fakeBridge{})
	d.NewClient = NewHueClient

	code := d.Run(context.Background(), []string{"hue-control", "Kitchen"})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "invalid bridge configuration")
}

func TestRunConfigLoadError(t *testing.T) {
	d, out := newTestDriver(&memoryStore{loadErr: errors.New("permission denied")}, &fakeBridge{})

	assert.Equal(t, 1, d.Run(context.Background(), []string{"hue-control", "Kitchen"}))
	assert.Equal(t, "Error loading config: permission denied\n", out.String())
}

func TestRunLightsError(t *testing.T) {
	bridge := &fakeBridge{lightsErr: errors.New("API error: unauthorized user")}
	d, out := newTestDriver(&memoryStore{cfg: keyed("192.168.1.2", "key")}, bridge)

	assert.Equal(t, 1, d.Run(context.Background(), []string{"hue-control", "Kitchen"}))
	assert.Contains(t, out.String(), "unauthorized user")
}

func TestRunDiscoversBridge(t *testing.T) {
	store := &memoryStore{cfg: &config.Config{}}
	bridge := &fakeBridge{lights: sampleLights(), registerKey: "fresh-key"}
	d, _ := newTestDriver(store, bridge)

	var gotHost string
	d.NewClient = func(host, key string) (api.BridgeClient, error) {
		gotHost = host
		return bridge, nil
	}
	d.Discover = func(ctx context.Context) (string, error) {
		return "192.168.1.77", nil
	}

	assert.Equal(t, 0, d.Run(context.Background(), []string{"hue-control", "-l"}))
	assert.Equal(t, "192.168.1.77", gotHost)
	assert.Equal(t, "192.168.1.77", store.cfg.BridgeIP)
	assert.Equal(t, "fresh-key", store.cfg.KeyOrEmpty())
}

func TestRunDiscoveryFailure(t *testing.T) {
	d, out := newTestDriver(&memoryStore{cfg: &config.Config{}}, &fakeBridge{})

	assert.Equal(t, 1, d.Run(context.Background(), []string{"hue-control", "Kitchen"}))
	assert.Contains(t, out.String(), "No bridge configured")
}

func TestDemoDriver(t *testing.T) {
	var out bytes.Buffer
	d := NewDemoDriver(&out)

	code := d.Run(context.Background(), []string{"hue-control", "ceiling light", "-t", "300", "-b", "-10"})

	assert.Equal(t, 0, code)
	// Only the first Ceiling Light is on; the second ignores state changes
	assert.Equal(t, "Setting color temperature to 300\nSetting brightness: 70\n", out.String())

	out.Reset()
	assert.Equal(t, 0, d.Run(context.Background(), []string{"hue-control", "--list"}))
	assert.Contains(t, out.String(), "[ON ] Ceiling Light: ")
	assert.Contains(t, out.String(), "(Brightness 70)")
	assert.Contains(t, out.String(), "[OFF] Accent Strip")
}
