package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

// Client — SMS-провайдер (Mobizon). В dry-run режиме HTTP-запросов нет,
// код просто пишется в лог — удобно для разработки и тестов.
type Client struct {
	ApiKey string
	Sender string // опционально
	DryRun bool
}

type sendSMSResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewClient(apiKey string) *Client {
	return &Client{ApiKey: apiKey}
}

func NewClientWithOptions(apiKey, sender string, dryRun bool) *Client {
	return &Client{ApiKey: apiKey, Sender: sender, DryRun: dryRun}
}

// SendSMS отправляет код подтверждения с указанием срока действия.
func (c *Client) SendSMS(to, code string, expiryMinutes int) error {
	text := fmt.Sprintf("Код подтверждения: %s. Действителен %d мин.", code, expiryMinutes)

	if c.DryRun || c.ApiKey == "" || c.ApiKey == "dry-run" {
		log.Printf("[sms][dry-run] to=%s sender=%q text=%q", to, c.Sender, text)
		return nil
	}

	apiURL := "https://api.mobizon.kz/service/message/sendsmsmessage"

	form := url.Values{
		"apiKey":    {c.ApiKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	resp, err := http.PostForm(apiURL, form)
	if err != nil {
		return fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result sendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("mobizon returned error code: %d", result.Code)
	}
	log.Printf("[sms][send] ok: to=%s messageID=%s", to, result.Data.MessageID)
	return nil
}
