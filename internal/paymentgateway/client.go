// Package paymentgateway реализует клиент платёжного шлюза для приёма
// денежных пожертвований. Сессия создаётся form-запросом, итоговый статус
// приходит обратными вызовами на адреса success/fail/cancel.
package paymentgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const sessionPath = "/gwprocess/v4/api.php"

type Client struct {
	storeID    string
	storePass  string
	gatewayURL string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного шлюза.
func NewClient(storeID, storePass, gatewayURL string) *Client {
	return &Client{
		storeID:    storeID,
		storePass:  storePass,
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateSession создаёт платёжную сессию и возвращает адрес платёжной
// страницы шлюза для перенаправления пользователя.
func (c *Client) CreateSession(ctx context.Context, reqParams SessionRequest) (*SessionResponse, error) {
	const op = "paymentgateway.CreateSession"

	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_passwd", c.storePass)
	form.Set("total_amount", strconv.FormatFloat(reqParams.Amount, 'f', 2, 64))
	form.Set("currency", reqParams.Currency)
	form.Set("tran_id", reqParams.TranID)
	form.Set("success_url", reqParams.SuccessURL)
	form.Set("fail_url", reqParams.FailURL)
	form.Set("cancel_url", reqParams.CancelURL)
	form.Set("cus_name", reqParams.CustomerName)
	form.Set("cus_email", reqParams.CustomerEmail)
	// Обязательные для шлюза поля, не имеющие смысла для пожертвования
	form.Set("cus_add1", "N/A")
	form.Set("cus_city", "N/A")
	form.Set("cus_country", "N/A")
	form.Set("cus_phone", "N/A")
	form.Set("shipping_method", "NO")
	form.Set("product_name", "donation")
	form.Set("product_category", "donation")
	form.Set("product_profile", "non-physical-goods")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.gatewayURL+sessionPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var sessionResp SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sessionResp.Status != "SUCCESS" {
		if sessionResp.FailedReason != "" {
			return nil, fmt.Errorf("%s: session rejected: %s", op, sessionResp.FailedReason)
		}
		return nil, errors.New(op + ": session rejected")
	}
	return &sessionResp, nil
}
