package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

var ErrLinkButtonNotPressed = errors.New("link button not pressed")

// errLinkButtonNotPressed is the bridge's error type for an unpressed link button
const errLinkButtonNotPressed = 101

// pairingRequest is the body sent to create an app key
type pairingRequest struct {
	DeviceType string `json:"devicetype"`
}

// pairingResponse represents a response from the pairing endpoint
type pairingResponse struct {
	Success *struct {
		Username string `json:"username"`
	} `json:"success,omitempty"`
	Error *struct {
		Type        int    `json:"type"`
		Address     string `json:"address"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// RegisterApplication asks the bridge for an application key.
// The link button on the bridge must have been pressed shortly before.
// On success the key is used for all further requests.
func (b *HueBridge) RegisterApplication(ctx context.Context, appName string) (key string, err error) {
	bodyBytes, err := json.Marshal(pairingRequest{DeviceType: appName})
	if err != nil {
		return "", err
	}

	url := b.baseURL() + "/api"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrBridgeUnavailable, resp.StatusCode)
	}

	var responses []pairingResponse
	if err := json.NewDecoder(resp.Body).Decode(&responses); err != nil {
		return "", fmt.Errorf("failed to decode pairing response: %w", err)
	}
	if len(responses) == 0 {
		return "", errors.New("empty pairing response")
	}

	response := responses[0]
	switch {
	case response.Success != nil:
		b.appKey = response.Success.Username
		log.Debug().Str("host", b.host).Msg("Registered application")
		return b.appKey, nil
	case response.Error != nil && response.Error.Type == errLinkButtonNotPressed:
		return "", ErrLinkButtonNotPressed
	case response.Error != nil:
		return "", fmt.Errorf("pairing error: %s", response.Error.Description)
	}

	return "", errors.New("unexpected pairing response")
}
