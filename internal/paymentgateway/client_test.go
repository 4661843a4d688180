package paymentgateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "teststore", r.PostFormValue("store_id"))
		assert.Equal(t, "don_abc", r.PostFormValue("tran_id"))
		assert.Equal(t, "500.00", r.PostFormValue("total_amount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionkey":"sk1","GatewayPageURL":"https://pay.example.com/sk1"}`))
	}))
	defer server.Close()

	client := NewClient("teststore", "testpass", server.URL)
	resp, err := client.CreateSession(context.Background(), SessionRequest{
		TranID:        "don_abc",
		Amount:        500,
		Currency:      "BDT",
		SuccessURL:    "http://backend/payment/success",
		FailURL:       "http://backend/payment/fail",
		CancelURL:     "http://backend/payment/cancel",
		CustomerName:  "donor",
		CustomerEmail: "donor@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/sk1", resp.GatewayPageURL)
}

func TestCreateSession_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"FAILED","failedreason":"store credential error"}`))
	}))
	defer server.Close()

	client := NewClient("teststore", "wrong", server.URL)
	resp, err := client.CreateSession(context.Background(), SessionRequest{TranID: "don_abc", Amount: 500, Currency: "BDT"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "store credential error")
}
