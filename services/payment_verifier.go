package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// PaymentVerifier confirms out of band that a redirect marked "success"
// corresponds to a paid order.
type PaymentVerifier interface {
	Verify(ctx context.Context, result PaymentResult) (bool, error)
}

// TrustingVerifier accepts the redirect status as is.
type TrustingVerifier struct{}

func (TrustingVerifier) Verify(_ context.Context, result PaymentResult) (bool, error) {
	return result.IsSuccess, nil
}

// InfinitePayVerifier asks the InfinitePay payment_check endpoint.
type InfinitePayVerifier struct {
	endpoint string
	handle   string
	client   *http.Client
}

func NewInfinitePayVerifier(endpoint, handle string, client *http.Client) *InfinitePayVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &InfinitePayVerifier{endpoint: endpoint, handle: handle, client: client}
}

type paymentCheckRequest struct {
	Handle         string `json:"handle"`
	OrderNSU       string `json:"order_nsu"`
	TransactionNSU string `json:"transaction_nsu"`
	Slug           string `json:"slug"`
}

type paymentCheckResponse struct {
	Success bool `json:"success"`
	Paid    bool `json:"paid"`
}

func (v *InfinitePayVerifier) Verify(ctx context.Context, result PaymentResult) (bool, error) {
	if !result.IsSuccess {
		return false, nil
	}
	if result.TransactionNSU == "" || result.Slug == "" {
		return false, errors.New("payment return without transaction reference")
	}

	body, err := json.Marshal(paymentCheckRequest{
		Handle:         v.handle,
		OrderNSU:       result.OrderNSU,
		TransactionNSU: result.TransactionNSU,
		Slug:           result.Slug,
	})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("payment check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment check: unexpected status %d", resp.StatusCode)
	}

	var out paymentCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("payment check: decode: %w", err)
	}
	return out.Success && out.Paid, nil
}
