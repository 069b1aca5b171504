package kakaopay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"perfumeshop-be/internal/apperr"
)

// Client talks to the KakaoPay online payment API. All calls are synchronous
// with a short timeout; the settlement flow treats any failure as a hard stop
// and rolls its transaction back.
type Client struct {
	baseURL    string
	secretKey  string
	cid        string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey, cid string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		cid:       cid,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type ReadyRequest struct {
	PartnerOrderId string
	PartnerUserId  string
	ItemName       string
	Quantity       int
	TotalAmount    int
	ApprovalURL    string
	CancelURL      string
	FailURL        string
}

type ReadyResponse struct {
	Tid               string `json:"tid"`
	NextRedirectPcUrl string `json:"next_redirect_pc_url"`
	CreatedAt         string `json:"created_at"`
}

type ApproveResponse struct {
	Aid        string `json:"aid"`
	Tid        string `json:"tid"`
	Amount     Amount `json:"amount"`
	ApprovedAt string `json:"approved_at"`
}

type Amount struct {
	Total   int `json:"total"`
	TaxFree int `json:"tax_free"`
}

type CancelResponse struct {
	Aid            string `json:"aid"`
	Tid            string `json:"tid"`
	Status         string `json:"status"`
	CanceledAmount Amount `json:"canceled_amount"`
	CanceledAt     string `json:"canceled_at"`
}

// Ready opens a payment session and returns the gateway transaction id plus
// the redirect URL the customer completes the payment on.
func (c *Client) Ready(ctx context.Context, req *ReadyRequest) (*ReadyResponse, error) {
	body := map[string]interface{}{
		"cid":              c.cid,
		"partner_order_id": req.PartnerOrderId,
		"partner_user_id":  req.PartnerUserId,
		"item_name":        req.ItemName,
		"quantity":         req.Quantity,
		"total_amount":     req.TotalAmount,
		"tax_free_amount":  0,
		"approval_url":     req.ApprovalURL,
		"cancel_url":       req.CancelURL,
		"fail_url":         req.FailURL,
	}

	var res ReadyResponse
	if err := c.post(ctx, "/online/v1/payment/ready", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Approve finalizes a payment the customer authorized on the redirect page.
func (c *Client) Approve(ctx context.Context, tid, partnerOrderId, partnerUserId, pgToken string) (*ApproveResponse, error) {
	body := map[string]interface{}{
		"cid":              c.cid,
		"tid":              tid,
		"partner_order_id": partnerOrderId,
		"partner_user_id":  partnerUserId,
		"pg_token":         pgToken,
	}

	var res ApproveResponse
	if err := c.post(ctx, "/online/v1/payment/approve", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Cancel reverses an approved payment, fully or partially.
func (c *Client) Cancel(ctx context.Context, tid string, cancelAmount int) (*CancelResponse, error) {
	body := map[string]interface{}{
		"cid":                    c.cid,
		"tid":                    tid,
		"cancel_amount":          cancelAmount,
		"cancel_tax_free_amount": 0,
	}

	var res CancelResponse
	if err := c.post(ctx, "/online/v1/payment/cancel", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Wrap(err, "failed to encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Authorization", "SECRET_KEY "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Gatewayf("payment gateway unreachable: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Gatewayf("failed to read gateway response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apperr.Gatewayf("gateway %s returned %d: %s", path, resp.StatusCode, truncate(raw, 256))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Gatewayf("failed to decode gateway response: %v", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s...", b[:n])
}
