package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

type loginResponse struct {
	Results struct {
		Code string `json:"qr_link"`
	} `json:"results"`
}

// PairingQRPNG fetches the gateway's current device-pairing code and renders
// it as a QR PNG. Used on first start before a device is linked.
func (c *Client) PairingQRPNG(ctx context.Context) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("gateway not configured")
	}

	url := fmt.Sprintf("%s/app/login", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", formatAuthHeader(c.apiKey))
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway login request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if login.Results.Code == "" {
		return nil, fmt.Errorf("gateway returned no pairing code")
	}

	png, err := qrcode.Encode(login.Results.Code, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render pairing qr: %w", err)
	}
	return png, nil
}
