package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/hue-control/internal/models"
)

var (
	ErrInvalidConfiguration = errors.New("invalid bridge configuration")
	ErrBridgeUnavailable    = errors.New("bridge unavailable")
)

// UpdateError is returned when the bridge rejects a light state update
type UpdateError struct {
	LightID string
	Message string
}

func (e *UpdateError) Error() string {
	return e.Message
}

var appKeyPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

const requestTimeout = 10 * time.Second

// HueBridge represents a connection to a Philips Hue bridge
type HueBridge struct {
	host   string
	appKey string
	client *http.Client
}

// NewHueBridge creates a new bridge client. host must be an IP address,
// optionally with a port. appKey may be empty until the application is registered.
func NewHueBridge(host, appKey string) (*HueBridge, error) {
	if err := validateHost(host); err != nil {
		return nil, err
	}
	if appKey != "" && !appKeyPattern.MatchString(appKey) {
		return nil, fmt.Errorf("%w: malformed application key", ErrInvalidConfiguration)
	}

	return &HueBridge{
		host:   host,
		appKey: appKey,
		client: &http.Client{
			Timeout: requestTimeout,
			// Hue bridges use self-signed certificates
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}, nil
}

func validateHost(host string) error {
	addr := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		addr = h
	}
	if _, err := netip.ParseAddr(addr); err != nil {
		return fmt.Errorf("%w: %q is not a valid bridge IP address", ErrInvalidConfiguration, host)
	}
	return nil
}

// baseURL returns the https origin of the bridge
func (b *HueBridge) baseURL() string {
	if addr, err := netip.ParseAddr(b.host); err == nil && addr.Is6() {
		return "https://[" + b.host + "]"
	}
	return "https://" + b.host
}

// Host returns the bridge host
func (b *HueBridge) Host() string {
	return b.host
}

// AppKey returns the application key in use
func (b *HueBridge) AppKey() string {
	return b.appKey
}

// doRequest performs an authenticated API request
func (b *HueBridge) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	url := b.baseURL() + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("hue-application-key", b.appKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return b.client.Do(req)
}

// apiResponse wraps the V2 API response format
type apiResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Description string `json:"description"`
	} `json:"errors"`
}

// GetLights retrieves all lights from the bridge
func (b *HueBridge) GetLights(ctx context.Context) (lights []*models.Light, err error) {
	resp, err := b.doRequest(ctx, http.MethodGet, "/clip/v2/resource/light", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get lights: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode lights response: %w", err)
	}

	if len(apiResp.Errors) > 0 {
		return nil, fmt.Errorf("API error: %s", apiResp.Errors[0].Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d)", resp.StatusCode)
	}

	var rawLights []lightResource
	if err := json.Unmarshal(apiResp.Data, &rawLights); err != nil {
		return nil, fmt.Errorf("failed to parse lights: %w", err)
	}

	result := make([]*models.Light, len(rawLights))
	for i, raw := range rawLights {
		result[i] = raw.toModel()
	}

	log.Debug().Int("count", len(result)).Str("host", b.host).Msg("Fetched lights")
	return result, nil
}

// lightResource represents the V2 API light resource
type lightResource struct {
	ID       string `json:"id"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	On      onState `json:"on"`
	Dimming *struct {
		Brightness  float64  `json:"brightness"`
		MinDimLevel *float64 `json:"min_dim_level"`
	} `json:"dimming"`
	ColorTemperature *struct {
		Mirek       *int `json:"mirek"`
		MirekValid  bool `json:"mirek_valid"`
		MirekSchema struct {
			MirekMinimum int `json:"mirek_minimum"`
			MirekMaximum int `json:"mirek_maximum"`
		} `json:"mirek_schema"`
	} `json:"color_temperature"`
	Color *colorState `json:"color"`
}

func (r *lightResource) toModel() *models.Light {
	light := &models.Light{
		ID:                r.ID,
		Name:              r.Metadata.Name,
		On:                r.On.On,
		Color:             models.White,
		SupportsColor:     r.Color != nil,
		SupportsColorTemp: r.ColorTemperature != nil,
		SupportsDimming:   r.Dimming != nil,
	}

	if r.Dimming != nil {
		light.Brightness = r.Dimming.Brightness
		if r.Dimming.MinDimLevel != nil {
			light.MinBrightness = *r.Dimming.MinDimLevel
		}
	}

	if ct := r.ColorTemperature; ct != nil {
		light.MinColorTemperature = ct.MirekSchema.MirekMinimum
		light.MaxColorTemperature = ct.MirekSchema.MirekMaximum
		if ct.Mirek != nil {
			light.ColorTemperature = *ct.Mirek
		}
	}

	switch {
	case r.ColorTemperature != nil && r.ColorTemperature.MirekValid && r.ColorTemperature.Mirek != nil:
		light.Color = models.RGBFromMirek(*r.ColorTemperature.Mirek)
	case r.Color != nil:
		light.Color = models.RGBFromXY(r.Color.XY.X, r.Color.XY.Y)
	}

	return light
}

type onState struct {
	On bool `json:"on"`
}

type dimmingState struct {
	Brightness float64 `json:"brightness"`
}

type colorTemperatureState struct {
	Mirek int `json:"mirek"`
}

type xyPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type colorState struct {
	XY xyPoint `json:"xy"`
}

// lightUpdate is the V2 PUT body; nil fields are left untouched on the bridge
type lightUpdate struct {
	On               *onState               `json:"on,omitempty"`
	Dimming          *dimmingState          `json:"dimming,omitempty"`
	ColorTemperature *colorTemperatureState `json:"color_temperature,omitempty"`
	Color            *colorState            `json:"color,omitempty"`
}

func newLightUpdate(light *models.Light) lightUpdate {
	var u lightUpdate
	if light.Changed(models.FieldOn) {
		u.On = &onState{On: light.On}
	}
	if light.Changed(models.FieldBrightness) {
		u.Dimming = &dimmingState{Brightness: light.Brightness}
	}
	if light.Changed(models.FieldColorTemperature) {
		u.ColorTemperature = &colorTemperatureState{Mirek: light.ColorTemperature}
	}
	if light.Changed(models.FieldColor) {
		x, y := light.Color.XY()
		u.Color = &colorState{XY: xyPoint{X: x, Y: y}}
	}
	return u
}

// UpdateLight pushes the light's changed fields to the bridge.
// A light without pending changes is not sent.
func (b *HueBridge) UpdateLight(ctx context.Context, light *models.Light) (err error) {
	if !light.HasChanges() {
		return nil
	}

	body, err := json.Marshal(newLightUpdate(light))
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/clip/v2/resource/light/%s", light.ID)
	resp, err := b.doRequest(ctx, http.MethodPut, path, bytes.NewReader(body))
	if err != nil {
		return &UpdateError{LightID: light.ID, Message: fmt.Sprintf("failed to set light state: %v", err)}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var apiResp apiResponse
		if json.Unmarshal(bodyBytes, &apiResp) == nil && len(apiResp.Errors) > 0 {
			return &UpdateError{LightID: light.ID, Message: apiResp.Errors[0].Description}
		}
		return &UpdateError{
			LightID: light.ID,
			Message: fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	log.Debug().Str("light", light.ID).RawJSON("body", body).Msg("Updated light")
	light.ClearChanges()
	return nil
}
