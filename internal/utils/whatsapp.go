package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppClient sends text messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	token   string
	baseURL string
	DryRun  bool
	client  *http.Client
}

func NewWhatsAppClient(accessToken, phoneNumberID string, dryRun bool) *WhatsAppClient {
	return &WhatsAppClient{
		token:   accessToken,
		baseURL: fmt.Sprintf("https://graph.facebook.com/v19.0/%s", phoneNumberID),
		DryRun:  dryRun,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the client has credentials to send with.
func (w *WhatsAppClient) Configured() bool {
	return w != nil && (w.DryRun || w.token != "")
}

type waResp struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText sends one text message to a phone number in international format.
func (w *WhatsAppClient) SendText(to, text string) error {
	if w.DryRun || w.token == "" {
		fmt.Printf("[whatsapp][dry-run] to=%s text=%q\n", to, text)
		return nil
	}

	body := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]any{"body": text, "preview_url": false},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequest("POST", w.baseURL+"/messages", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var api waResp
	_ = json.Unmarshal(respBody, &api)
	if resp.StatusCode != 200 || api.Error != nil {
		desc := ""
		if api.Error != nil {
			desc = api.Error.Message
		}
		return fmt.Errorf("whatsapp sendMessage failed: status=%d desc=%s", resp.StatusCode, desc)
	}
	return nil
}
