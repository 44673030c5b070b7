// Package waapi talks to the waapi.app WhatsApp HTTP API.
package waapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/igor325/AGROTASKv2/internal/domain"
	"github.com/igor325/AGROTASKv2/internal/observability/logging"
	"github.com/igor325/AGROTASKv2/internal/observability/tracing"
)

type Client struct {
	baseURL    string
	instanceID string
	token      string
	httpClient *http.Client
}

var _ domain.MessageGateway = (*Client)(nil)

func NewClient(baseURL, instanceID, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		instanceID: instanceID,
		token:      token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	ID        string `json:"id"`
	MessageID string `json:"messageId"`
}

// Send delivers a text message to the given chat and returns the
// provider-assigned message ID.
func (c *Client) Send(ctx context.Context, chatID, text string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = path.Join(u.Path, "instances", c.instanceID, "client", "action", "send-message")

	slog.DebugContext(ctx, "sending message via waapi",
		slog.String("chat_id", chatID),
		slog.String("url", u.String()),
	)

	body, err := json.Marshal(sendMessageRequest{
		ChatID:  chatID,
		Message: text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send request to waapi",
			slog.String("chat_id", chatID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read response body from waapi",
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.ErrorContext(ctx, "unexpected status code from waapi",
			slog.String("chat_id", chatID),
			slog.Int("status_code", resp.StatusCode),
		)
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded sendMessageResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		slog.ErrorContext(ctx, "failed to decode response from waapi",
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	messageID := decoded.ID
	if messageID == "" {
		messageID = decoded.MessageID
	}

	slog.DebugContext(ctx, "message accepted by waapi",
		slog.String("chat_id", chatID),
		slog.String("message_id", messageID),
	)

	return messageID, nil
}
