// Package submission is the client side of the lead notification endpoint:
// it posts a lead exactly once and turns the {ok,error} envelope into Go
// errors. Complete scores the survey before submitting so the respondent
// always gets a result, even when delivery fails.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/provider-scorecard/internal/lead"
)

// ErrMissingContact is returned before any request when name or email is
// blank after trimming.
var ErrMissingContact = errors.New("submission: " + lead.MsgMissingRequired)

// Submitter delivers a lead. *Client is the production implementation.
type Submitter interface {
	Submit(ctx context.Context, l lead.Lead) error
}

// SubmitError is any failed delivery attempt: transport failure, a non-2xx
// status, or an {ok:false} envelope. StatusCode is 0 for transport failures.
type SubmitError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmitError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("submission: %s", e.Message)
	}
	return fmt.Sprintf("submission: status %d: %s", e.StatusCode, e.Message)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Client posts leads to a notification endpoint such as
// https://example.com/api/send.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a Client for endpoint. A zero timeout selects 20s.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Submit sends one POST with the JSON-encoded lead. It never retries.
func (c *Client) Submit(ctx context.Context, l lead.Lead) error {
	if !l.HasRequired() {
		return ErrMissingContact
	}

	body, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("submission: marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmitError{Message: "no se pudo contactar el servidor", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &SubmitError{StatusCode: resp.StatusCode, Message: "respuesta ilegible", Err: err}
	}

	var env envelope
	jsonErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if jsonErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}
	if jsonErr != nil {
		return &SubmitError{StatusCode: resp.StatusCode, Message: "respuesta inválida", Err: jsonErr}
	}
	if !env.OK {
		msg := env.Error
		if msg == "" {
			msg = "el servidor rechazó el envío"
		}
		return &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}
	return nil
}
