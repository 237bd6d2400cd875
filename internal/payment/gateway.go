package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway abstracts the external payment provider. Only intent creation is
// initiated from this side; settlement flows back through the callback.
type Gateway interface {
	CreateIntent(ctx context.Context, reservationID string, amount float64, purpose Purpose) (*Intent, error)
}

// HTTPGateway talks to the payment provider over its REST API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type createIntentRequest struct {
	ReservationID string  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Purpose       string  `json:"purpose"`
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, reservationID string, amount float64, purpose Purpose) (*Intent, error) {
	body, err := json.Marshal(createIntentRequest{
		ReservationID: reservationID,
		Amount:        amount,
		Purpose:       string(purpose),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal intent request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/intents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build intent request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode intent response failed: %w", err)
	}
	return &intent, nil
}
