package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// ExpoClient sends through the Expo push API. The underlying *http.Client is
// reused across calls.
type ExpoClient struct {
	url         string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// ExpoOption configures an ExpoClient.
type ExpoOption func(*ExpoClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ExpoOption {
	return func(e *ExpoClient) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// WithExpoLogger sets the logger.
func WithExpoLogger(l *slog.Logger) ExpoOption {
	return func(e *ExpoClient) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExpoClient creates a client for cfg.ExpoURL.
func NewExpoClient(cfg Config, opts ...ExpoOption) *ExpoClient {
	c := &ExpoClient{
		url:         cfg.ExpoURL,
		accessToken: cfg.ExpoAccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      slog.Default(),
	}
	if c.url == "" {
		c.url = "https://exp.host/--/api/v2/push/send"
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("push.expo"))
	return c
}

type expoMessage struct {
	To        string         `json:"to"`
	Title     string         `json:"title,omitempty"`
	Body      string         `json:"body,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Priority  string         `json:"priority,omitempty"`
	ChannelID string         `json:"channelId,omitempty"`
	Sound     string         `json:"sound,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type expoResponse struct {
	Data   []expoTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// IsExpoToken reports whether token looks like an Expo push token.
func IsExpoToken(token string) bool {
	return (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]")
}

func (c *ExpoClient) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	if !IsExpoToken(msg.To) {
		return "", fmt.Errorf("%w: not an Expo push token", ErrTokenInvalid)
	}

	payload, err := json.Marshal([]expoMessage{{
		To:        msg.To,
		Title:     msg.Title,
		Body:      msg.Body,
		Data:      msg.Data,
		Priority:  msg.Priority,
		ChannelID: msg.ChannelID,
		Sound:     "default",
	}})
	if err != nil {
		return "", errors.Join(ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Join(ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Join(ErrDeliveryFailed, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: expo returned %d: %s", ErrDeliveryFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out expoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.Join(ErrDeliveryFailed, err)
	}
	if len(out.Errors) > 0 {
		return "", fmt.Errorf("%w: %s: %s", ErrDeliveryFailed, out.Errors[0].Code, out.Errors[0].Message)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("%w: empty ticket list", ErrDeliveryFailed)
	}

	ticket := out.Data[0]
	if ticket.Status != "ok" {
		if ticket.Details.Error == "DeviceNotRegistered" {
			return "", fmt.Errorf("%w: %s", ErrTokenInvalid, ticket.Message)
		}
		return "", fmt.Errorf("%w: %s", ErrDeliveryFailed, ticket.Message)
	}

	c.logger.DebugContext(ctx, "push ticket issued", logger.MessageID(ticket.ID))
	return ticket.ID, nil
}
