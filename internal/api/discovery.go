package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

var ErrNoBridges = errors.New("no bridge found on the local network")

// cloudDiscoveryURL is the Philips Hue cloud discovery (NUPNP) endpoint
var cloudDiscoveryURL = "https://discovery.meethue.com"

// DiscoveredBridge represents a Hue bridge found during discovery
type DiscoveredBridge struct {
	// IP address of the bridge
	Host string
	// Unique bridge identifier
	BridgeID string
}

// DiscoverMDNS looks for Hue bridges on the local network using mDNS
func DiscoverMDNS(ctx context.Context, timeout time.Duration) ([]DiscoveredBridge, error) {
	var (
		bridges []DiscoveredBridge
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	entriesCh := make(chan *mdns.ServiceEntry, 10)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for entry := range entriesCh {
			if entry.AddrV4 == nil {
				continue
			}
			bridge := DiscoveredBridge{Host: entry.AddrV4.String()}
			for _, txt := range entry.InfoFields {
				if id, ok := strings.CutPrefix(txt, "bridgeid="); ok {
					bridge.BridgeID = id
				}
			}

			mu.Lock()
			bridges = append(bridges, bridge)
			mu.Unlock()
		}
	}()

	params := mdns.DefaultParams("_hue._tcp")
	params.Entries = entriesCh
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.QueryContext(ctx, params)
	close(entriesCh)
	wg.Wait()

	if err != nil {
		return bridges, fmt.Errorf("mDNS query failed: %w", err)
	}

	return bridges, nil
}

// nupnpResponse represents the response from Hue cloud discovery
type nupnpResponse struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
}

// DiscoverCloud asks the Philips Hue cloud service which bridges share our public IP
func DiscoverCloud(ctx context.Context, timeout time.Duration) (bridges []DiscoveredBridge, err error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cloudDiscoveryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloud discovery request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloud discovery returned status %d", resp.StatusCode)
	}

	var results []nupnpResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := make([]DiscoveredBridge, 0, len(results))
	for _, r := range results {
		if r.InternalIPAddress == "" {
			continue
		}
		result = append(result, DiscoveredBridge{Host: r.InternalIPAddress, BridgeID: r.ID})
	}

	return result, nil
}

type discoverFunc func(ctx context.Context, timeout time.Duration) ([]DiscoveredBridge, error)

// DiscoverAll runs mDNS and cloud discovery concurrently and merges their results
func DiscoverAll(ctx context.Context, timeout time.Duration) ([]DiscoveredBridge, error) {
	return discoverWith(ctx, timeout, map[string]discoverFunc{
		"mDNS":  DiscoverMDNS,
		"cloud": DiscoverCloud,
	})
}

func discoverWith(ctx context.Context, timeout time.Duration, sources map[string]discoverFunc) ([]DiscoveredBridge, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		bridges []DiscoveredBridge
		err     error
		source  string
	}

	results := make(chan result, len(sources))
	for name, discover := range sources {
		name, discover := name, discover
		go func() {
			bridges, err := discover(ctx, timeout)
			results <- result{bridges: bridges, err: err, source: name}
		}()
	}

	var allBridges []DiscoveredBridge
	seen := make(map[string]bool)
	var lastErr error

	for range sources {
		var r result
		select {
		case r = <-results:
		case <-ctx.Done():
			if len(allBridges) > 0 {
				return allBridges, nil
			}
			return nil, ctx.Err()
		}

		if r.err != nil {
			log.Debug().Err(r.err).Str("source", r.source).Msg("Bridge discovery failed")
			lastErr = r.err
			continue
		}
		for _, b := range r.bridges {
			key := b.Host
			if b.BridgeID != "" {
				key = strings.ToLower(b.BridgeID)
			}
			if !seen[key] {
				seen[key] = true
				allBridges = append(allBridges, b)
			}
		}
	}

	if len(allBridges) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return allBridges, nil
}

// DiscoverBridge returns the host of the first bridge found on the network
func DiscoverBridge(ctx context.Context, timeout time.Duration) (string, error) {
	bridges, err := DiscoverAll(ctx, timeout)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoBridges, err)
	}
	if len(bridges) == 0 {
		return "", ErrNoBridges
	}
	return bridges[0].Host, nil
}
