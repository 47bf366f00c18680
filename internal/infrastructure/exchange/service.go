package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

var (
	// ErrServiceUnavailable wraps transport or upstream failures from the
	// rate service.
	ErrServiceUnavailable = errors.New("exchange rate service unavailable")

	// ErrInvalidCurrency is returned when a requested currency code is not
	// present in the fetched rate snapshot.
	ErrInvalidCurrency = errors.New("invalid currency code")
)

type Service struct {
	client  *http.Client
	appID   string
	baseURL string
}

// Snapshot is the set of exchange rates returned by the service for a single
// request, keyed by currency code and relative to the service's base currency.
type Snapshot struct {
	Rates map[string]float64 `json:"rates"`
}

func NewService(appID, baseURL string) *Service {
	return &Service{
		client:  &http.Client{},
		appID:   appID,
		baseURL: baseURL,
	}
}

// Latest fetches a fresh rate snapshot. Rates are never cached; every
// conversion observes the rates current at the moment of its own request.
func (s *Service) Latest(ctx context.Context) (*Snapshot, error) {
	endpoint := fmt.Sprintf("%s/api/latest.json?app_id=%s", s.baseURL, url.QueryEscape(s.appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Exchange rate service returned non-OK status")
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrServiceUnavailable, err)
	}

	return &snapshot, nil
}

// Convert fetches the current snapshot and computes
// amount * (rate[to] / rate[from]). A code missing from the snapshot is an
// ErrInvalidCurrency, never a silently propagated zero or NaN.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	snapshot, err := s.Latest(ctx)
	if err != nil {
		return 0, err
	}

	fromRate, ok := snapshot.Rates[from]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCurrency, from)
	}
	toRate, ok := snapshot.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCurrency, to)
	}

	converted := amount * (toRate / fromRate)
	log.Debug().
		Float64("amount", amount).
		Str("from", from).
		Str("to", to).
		Float64("converted", converted).
		Msg("Computed currency conversion")

	return converted, nil
}
