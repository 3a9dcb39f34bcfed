package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultResendBaseURL is the public Resend API root.
const DefaultResendBaseURL = "https://api.resend.com"

// resendClient is the concrete Sender backed by the Resend API.
type resendClient struct {
	apiKey     string
	baseURL    string // e.g. "https://api.resend.com"; overridden in tests
	httpClient *http.Client
}

// NewResendClient returns a Sender that delivers email via Resend. An empty
// baseURL selects DefaultResendBaseURL.
func NewResendClient(apiKey, baseURL string) Sender {
	if baseURL == "" {
		baseURL = DefaultResendBaseURL
	}
	return &resendClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ─── RESEND API SHAPES ────────────────────────────────────────────────────────

type resendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	ReplyTo string            `json:"reply_to,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// resendResponse covers both shapes Resend returns: {"id": ...} on success
// and a flat {"name", "message", "statusCode"} object on failure. Older API
// versions nested the failure under "error", so both are accepted.
type resendResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Error      *struct {
		Name       string `json:"name"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
}

// ─── HTTP SEND ────────────────────────────────────────────────────────────────

// Send posts m to /emails. It performs a single HTTP request.
func (c *resendClient) Send(ctx context.Context, m Message) error {
	reqBody := resendRequest{
		From:    m.From,
		To:      m.To,
		Subject: m.Subject,
		HTML:    m.HTML,
		ReplyTo: m.ReplyTo,
	}
	if m.Ref != "" {
		reqBody.Headers = map[string]string{"X-Entity-Ref-ID": m.Ref}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/emails",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("email: read response: %w", err)
	}

	var parsed resendResponse
	if jsonErr := json.Unmarshal(respBytes, &parsed); jsonErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%.200s", string(respBytes))}
		}
		return fmt.Errorf("email: unmarshal response (status %d): %w", resp.StatusCode, jsonErr)
	}

	if parsed.Error != nil {
		return &ProviderError{StatusCode: resp.StatusCode, Name: parsed.Error.Name, Message: parsed.Error.Message}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("%.200s", string(respBytes))
		}
		return &ProviderError{StatusCode: resp.StatusCode, Name: parsed.Name, Message: msg}
	}

	return nil
}
