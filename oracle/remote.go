package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"payment-engine/domain"
)

const (
	defaultRemoteTimeout = 2 * time.Second
	maxResponseBytes     = 1 << 20
)

// RemoteConfig configures a model server client.
type RemoteConfig struct {
	URL                 string
	Timeout             time.Duration
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Remote asks a model server for priorities. Calls go through a circuit
// breaker so a dead server costs one fast failure per request instead of a
// timeout.
type Remote struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type predictRequest struct {
	Cards          []CardFeatures `json:"cards"`
	AvailableFunds float64        `json:"available_funds"`
}

type predictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

func NewRemote(cfg RemoteConfig) *Remote {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "prioritization-oracle",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("oracle circuit breaker state changed")
		},
	}

	return &Remote{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
	}
}

func (r *Remote) Predict(
	ctx context.Context,
	cards []CardFeatures,
	availableFunds float64,
) ([]Prediction, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.call(ctx, cards, availableFunds)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
		}
		return nil, err
	}
	return result.([]Prediction), nil
}

// State reports the breaker state for health output.
func (r *Remote) State() string {
	return r.breaker.State().String()
}

func (r *Remote) call(
	ctx context.Context,
	cards []CardFeatures,
	availableFunds float64,
) ([]Prediction, error) {
	body, err := json.Marshal(predictRequest{Cards: cards, AvailableFunds: availableFunds})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrOracleUnavailable, resp.StatusCode, string(msg))
	}

	var out predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	return out.Predictions, nil
}
