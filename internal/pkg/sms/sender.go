package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"perfumeshop-be/internal/apperr"
)

// ISender sends a single text message. Notification delivery is best effort;
// callers log failures and move on rather than failing the settlement.
type ISender interface {
	Send(ctx context.Context, to, text string) error
}

type Sender struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	senderLine string
	httpClient *http.Client
}

func NewSender(baseURL, apiKey, apiSecret, senderLine string) *Sender {
	return &Sender{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		senderLine: senderLine,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Sender) Send(ctx context.Context, to, text string) error {
	body := map[string]interface{}{
		"message": map[string]string{
			"to":   to,
			"from": s.senderLine,
			"text": text,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Wrap(err, "failed to encode sms request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages/v4/send", bytes.NewReader(payload))
	if err != nil {
		return apperr.Wrap(err, "failed to build sms request")
	}
	req.Header.Set("Authorization", fmt.Sprintf("HMAC-SHA256 apiKey=%s, signature=%s", s.apiKey, s.apiSecret))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperr.Gatewayf("sms provider unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.Gatewayf("sms provider returned %d", resp.StatusCode)
	}
	return nil
}
