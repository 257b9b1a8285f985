// Package gateway talks to the WhatsApp HTTP gateway (gowa-style API) used
// as the chat transport.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orderbot_backend/platform/config"
	"orderbot_backend/platform/logger"
	"orderbot_backend/platform/phone"

	"golang.org/x/time/rate"
)

// Client sends messages through the gateway. Outbound traffic is rate
// limited; WhatsApp gateways throttle or ban flooding senders.
type Client struct {
	baseURL  string
	apiKey   string
	deviceID string
	http     *http.Client
	limiter  *rate.Limiter
	log      *logger.Logger
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewClient creates a gateway client, or nil when no gateway is configured.
// A nil client swallows sends, which keeps local development working without
// a paired device.
func NewClient(cfg config.GatewayConfig, log *logger.Logger) *Client {
	if cfg.GetGatewayURL() == "" {
		return nil
	}

	sendRate := cfg.GetGatewaySendRate()
	if sendRate <= 0 {
		sendRate = 1
	}
	burst := cfg.GetGatewaySendBurst()
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.GetGatewayURL(), "/"),
		apiKey:   cfg.GetGatewayAPIKey(),
		deviceID: cfg.GetGatewayDeviceID(),
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(sendRate), burst),
		log:      log,
	}
}

// SendMessage delivers one text message to a phone number. Sends from the
// same handler invocation stay ordered per recipient because the call blocks
// until the gateway acknowledges.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	normalized := strings.TrimPrefix(phone.NormalizeE164(phoneNumber), "+")

	payload := sendRequest{
		Phone:   normalized,
		Message: message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal gateway payload: %w", err)
	}

	url := fmt.Sprintf("%s/send/message", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", formatAuthHeader(c.apiKey))
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Debug("gateway message sent", "phone", normalized)
	return nil
}

func formatAuthHeader(apiKey string) string {
	if strings.HasPrefix(strings.ToLower(apiKey), "basic ") {
		return apiKey
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(apiKey))
	return "Basic " + encoded
}
