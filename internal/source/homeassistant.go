package source

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const haRequestTimeout = 10 * time.Second

// HomeAssistant reads power and current sensors from a Home Assistant
// instance via its REST API.
type HomeAssistant struct {
	host            string
	token           string
	entityID        string
	currentEntityID string
	client          *http.Client
}

// HomeAssistantConfig holds the settings needed to talk to a hub.
type HomeAssistantConfig struct {
	// Host is the base URL, e.g. http://10.0.0.43:8123.
	Host string

	// Token is a long-lived access token.
	Token string

	// EntityID is the power sensor, e.g. sensor.pc_current_consumption.
	EntityID string

	// CurrentEntityID is the optional amperage sensor. Empty disables
	// current readings.
	CurrentEntityID string
}

// NewHomeAssistant creates a Home Assistant source.
func NewHomeAssistant(cfg HomeAssistantConfig) *HomeAssistant {
	return &HomeAssistant{
		host:            strings.TrimRight(cfg.Host, "/"),
		token:           cfg.Token,
		entityID:        cfg.EntityID,
		currentEntityID: cfg.CurrentEntityID,
		client:          &http.Client{Timeout: haRequestTimeout},
	}
}

// Name implements Source.
func (h *HomeAssistant) Name() string {
	return "Home Assistant"
}

// SupportsCurrent implements Source. Current readings require a configured
// amperage sensor.
func (h *HomeAssistant) SupportsCurrent() bool {
	return h.currentEntityID != ""
}

// Validate checks that the hub is reachable and the power sensor exists.
func (h *HomeAssistant) Validate(ctx context.Context) error {
	if h.host == "" || h.token == "" {
		return fmt.Errorf("%w: missing Home Assistant host or token", ErrUnavailable)
	}
	if _, err := h.fetchState(ctx, h.entityID); err != nil {
		return err
	}
	return nil
}

// Power implements Source.
func (h *HomeAssistant) Power(ctx context.Context) (float64, error) {
	return h.fetchState(ctx, h.entityID)
}

// Current implements Source.
func (h *HomeAssistant) Current(ctx context.Context) (float64, error) {
	if h.currentEntityID == "" {
		return 0, fmt.Errorf("%w: no current sensor configured", ErrUnavailable)
	}
	return h.fetchState(ctx, h.currentEntityID)
}

// stateResponse is the subset of the /api/states payload we care about.
type stateResponse struct {
	EntityID string `json:"entity_id"`
	State    string `json:"state"`
}

func (h *HomeAssistant) fetchState(ctx context.Context, entityID string) (float64, error) {
	url := fmt.Sprintf("%s/api/states/%s", h.host, entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s returned %s", ErrUnavailable, entityID, resp.Status)
	}

	var state stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}

	// Home Assistant reports "unknown"/"unavailable" for sensors that have
	// not produced a value yet.
	value, err := strconv.ParseFloat(state.State, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: state %q of %s is not numeric", ErrInvalidReading, state.State, entityID)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: state %q of %s is not finite", ErrInvalidReading, state.State, entityID)
	}
	return value, nil
}
