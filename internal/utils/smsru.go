package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://sms.ru"

type Client struct {
	APIID   string
	From    string // опционально
	DryRun  bool   // dry-run режим: не ходим в шлюз
	BaseURL string
	HTTP    *http.Client
}

type sendSMSResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
}

func NewClient(apiID, from string, dryRun bool) *Client {
	return &Client{
		APIID:   apiID,
		From:    from,
		DryRun:  dryRun,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSMS — отправка через sms.ru (или имитация в dry-run).
func (c *Client) SendSMS(ctx context.Context, to, text string) error {
	if c.DryRun || c.APIID == "" {
		log.Printf("[smsru][dry-run] to=%s from=%q text=%q", to, c.From, text)
		return nil
	}

	params := url.Values{
		"api_id": {c.APIID},
		"to":     {to},
		"msg":    {text},
		"json":   {"1"},
	}
	if c.From != "" {
		params.Set("from", c.From)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/sms/send?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sms response: %w", err)
	}

	var result sendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parse sms response: %w", err)
	}
	if result.Status != "OK" {
		log.Printf("[smsru][send] gateway error: to=%s status=%s code=%d", to, result.Status, result.StatusCode)
		return fmt.Errorf("sms.ru returned status %q (code %d)", result.Status, result.StatusCode)
	}
	return nil
}
