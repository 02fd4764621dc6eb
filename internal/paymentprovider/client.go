// Package paymentprovider реализует клиента внешнего платёжного провайдера.
// Провайдер принимает список позиций с итоговыми ценами и возвращает
// URL для перенаправления пользователя на страницу оплаты.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type Client struct {
	accessToken string
	apiURL      string
	httpClient  *http.Client
}

// NewClient создаёт новый клиент платёжного провайдера
func NewClient(accessToken, apiURL string) *Client {
	return &Client{
		accessToken: accessToken,
		apiURL:      apiURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreatePreference отправляет запрос на создание платёжного предпочтения
func (c *Client) CreatePreference(ctx context.Context, reqParams CreatePreferenceRequest) (*CreatePreferenceResponse, error) {
	req, err := c.newRequest(ctx, "POST", "/checkout/preferences", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var prefResp CreatePreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&prefResp); err != nil {
		return nil, err
	}
	return &prefResp, nil
}
