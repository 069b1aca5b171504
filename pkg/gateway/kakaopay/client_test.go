package kakaopay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"perfumeshop-be/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestReady(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/online/v1/payment/ready", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{
			"tid":                  "T1234567890",
			"next_redirect_pc_url": "https://pay.example.com/pc",
			"created_at":           "2026-08-31T10:00:00",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "TC0ONETIME")
	res, err := client.Ready(context.Background(), &ReadyRequest{
		PartnerOrderId: "order-1",
		PartnerUserId:  "user-1",
		ItemName:       "Amber Noir 50ml",
		Quantity:       2,
		TotalAmount:    22500,
		ApprovalURL:    "http://localhost/approve",
		CancelURL:      "http://localhost/cancel",
		FailURL:        "http://localhost/fail",
	})

	assert.NoError(t, err)
	assert.Equal(t, "T1234567890", res.Tid)
	assert.Equal(t, "https://pay.example.com/pc", res.NextRedirectPcUrl)

	assert.Equal(t, "SECRET_KEY sk-test", gotAuth)
	assert.Equal(t, "TC0ONETIME", gotBody["cid"])
	assert.Equal(t, float64(22500), gotBody["total_amount"])
	assert.Equal(t, float64(0), gotBody["tax_free_amount"])
}

func TestApprove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/online/v1/payment/approve", r.URL.Path)
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "pg-token-1", body["pg_token"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"aid":    "A1",
			"tid":    body["tid"],
			"amount": map[string]int{"total": 22500, "tax_free": 0},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "TC0ONETIME")
	res, err := client.Approve(context.Background(), "T1", "order-1", "user-1", "pg-token-1")

	assert.NoError(t, err)
	assert.Equal(t, "A1", res.Aid)
	assert.Equal(t, "T1", res.Tid)
	assert.Equal(t, 22500, res.Amount.Total)
}

func TestCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/online/v1/payment/cancel", r.URL.Path)
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, float64(9750), body["cancel_amount"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"aid":             "A2",
			"tid":             body["tid"],
			"status":          "CANCEL_PAYMENT",
			"canceled_amount": map[string]int{"total": 9750},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "TC0ONETIME")
	res, err := client.Cancel(context.Background(), "T1", 9750)

	assert.NoError(t, err)
	assert.Equal(t, "A2", res.Aid)
	assert.Equal(t, "CANCEL_PAYMENT", res.Status)
	assert.Equal(t, 9750, res.CanceledAmount.Total)
}

func TestNon200IsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code":-780,"error_message":"approval failure"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk-test", "TC0ONETIME")
	_, err := client.Cancel(context.Background(), "T1", 1000)

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindGateway))
	assert.Contains(t, err.Error(), "approval failure")
}

func TestUnreachableGateway(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "sk-test", "TC0ONETIME")

	_, err := client.Ready(context.Background(), &ReadyRequest{PartnerOrderId: "o", PartnerUserId: "u"})

	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindGateway))
}
