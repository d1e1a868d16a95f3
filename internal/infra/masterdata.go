package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"legofactory/internal/model"

	"github.com/rs/zerolog/log"
)

// MasterdataClient talks to the masterdata service, which owns the item
// catalog and every product's Bill of Materials. All calls carry an explicit
// timeout and a bounded retry with backoff, and run through the shared
// circuit breaker so a downed masterdata cannot stall fulfillment threads.
type MasterdataClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

const (
	masterdataTimeout    = 10 * time.Second
	masterdataMaxRetries = 2
	masterdataBackoff    = 250 * time.Millisecond
)

func NewMasterdataClient(baseURL string, cb *CircuitBreaker) *MasterdataClient {
	return &MasterdataClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: masterdataTimeout},
		cb:         cb,
	}
}

// bomEntry is one row of a product's BOM as served by masterdata.
type bomEntry struct {
	ModuleID int64 `json:"module_id"`
	Quantity int   `json:"quantity"`
}

type itemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ModuleRequirementsForProduct returns module id → required quantity for the
// product, already scaled by quantity. An empty mapping is returned as-is —
// interpreting that as a data error is the caller's concern.
func (c *MasterdataClient) ModuleRequirementsForProduct(ctx context.Context, productID int64, quantity int) (map[int64]int, error) {
	url := fmt.Sprintf("%s/api/products/%d/bom?quantity=%d", c.baseURL, productID, quantity)

	var entries []bomEntry
	if err := c.getJSON(ctx, url, &entries); err != nil {
		return nil, fmt.Errorf("masterdata: bom for product %d: %w", productID, err)
	}

	requirements := make(map[int64]int, len(entries))
	for _, e := range entries {
		requirements[e.ModuleID] += e.Quantity
	}
	return requirements, nil
}

// ItemName resolves an item's display name. Callers treat failure as
// cosmetic and substitute a synthetic name.
func (c *MasterdataClient) ItemName(ctx context.Context, itemType model.ItemType, itemID int64) (string, error) {
	url := fmt.Sprintf("%s/api/items/%s/%d", c.baseURL, itemType, itemID)

	var item itemResponse
	if err := c.getJSON(ctx, url, &item); err != nil {
		return "", fmt.Errorf("masterdata: name of %s %d: %w", itemType, itemID, err)
	}
	return item.Name, nil
}

// getJSON performs a GET through the circuit breaker, retrying transient
// failures up to masterdataMaxRetries times with linear backoff.
func (c *MasterdataClient) getJSON(ctx context.Context, url string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= masterdataMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * masterdataBackoff):
			}
			log.Debug().Str("url", url).Int("attempt", attempt).Msg("masterdata: retrying")
		}

		lastErr = c.cb.Execute(func() error {
			return c.doGet(ctx, url, out)
		})
		if lastErr == nil {
			return nil
		}
		if lastErr == ErrCircuitOpen {
			// Fast-fail — retrying immediately would hit the same open breaker.
			return lastErr
		}
	}
	return lastErr
}

func (c *MasterdataClient) doGet(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("masterdata unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("masterdata returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
