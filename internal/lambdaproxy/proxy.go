// Package lambdaproxy runs an http.Handler behind AWS Lambda, translating API
// Gateway HTTP API (payload v2) events to *http.Request values and the
// recorded response back. It lets the notification endpoint ship as a
// serverless function with the exact router the long-running server uses.
package lambdaproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// Adapter wraps an http.Handler. It holds no per-invocation state.
type Adapter struct {
	handler http.Handler
}

// New returns an Adapter serving h.
func New(h http.Handler) *Adapter {
	return &Adapter{handler: h}
}

// Handle is the Lambda entry point: pass it to lambda.Start.
func (a *Adapter) Handle(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	req, err := toRequest(ctx, ev)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"ok":false,"error":"Bad Request"}`,
		}, nil
	}

	rw := newResponseWriter()
	a.handler.ServeHTTP(rw, req)
	return rw.toEvent(), nil
}

// ─── REQUEST ──────────────────────────────────────────────────────────────────

func toRequest(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if ev.Body != "" {
		raw := []byte(ev.Body)
		if ev.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(ev.Body)
			if err != nil {
				return nil, fmt.Errorf("lambdaproxy: decode body: %w", err)
			}
			raw = decoded
		}
		body = bytes.NewReader(raw)
	}

	path := ev.RawPath
	if path == "" {
		path = ev.RequestContext.HTTP.Path
	}
	if path == "" {
		path = "/"
	}
	target := path
	if ev.RawQueryString != "" {
		target += "?" + ev.RawQueryString
	}

	method := ev.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("lambdaproxy: build request: %w", err)
	}

	for k, v := range ev.Headers {
		req.Header.Set(k, v)
	}
	if len(ev.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(ev.Cookies, "; "))
	}
	if req.Header.Get("X-Request-Id") == "" && ev.RequestContext.RequestID != "" {
		req.Header.Set("X-Request-Id", ev.RequestContext.RequestID)
	}
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	} else if ev.RequestContext.DomainName != "" {
		req.Host = ev.RequestContext.DomainName
	}
	if ip := ev.RequestContext.HTTP.SourceIP; ip != "" {
		req.RemoteAddr = ip + ":0"
	}

	return req, nil
}

// ─── RESPONSE ─────────────────────────────────────────────────────────────────

// responseWriter buffers the handler output for a single invocation.
type responseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: make(http.Header)}
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

func (w *responseWriter) toEvent() events.APIGatewayV2HTTPResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    make(map[string]string, len(w.header)),
	}
	for k, vals := range w.header {
		if http.CanonicalHeaderKey(k) == "Set-Cookie" {
			resp.Cookies = append(resp.Cookies, vals...)
			continue
		}
		// Payload v2 has no multi-value headers; join them as HTTP allows.
		resp.Headers[k] = strings.Join(vals, ", ")
	}

	plain := isText(w.header.Get("Content-Type")) &&
		isIdentity(w.header.Get("Content-Encoding")) &&
		utf8.Valid(w.body.Bytes())
	if plain || w.body.Len() == 0 {
		resp.Body = w.body.String()
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(w.body.Bytes())
		resp.IsBase64Encoded = true
	}
	return resp
}

// isIdentity reports whether the body is sent unencoded. A gzipped text/plain
// body (promhttp with Accept-Encoding: gzip) is binary on the wire.
func isIdentity(contentEncoding string) bool {
	ce := strings.TrimSpace(strings.ToLower(contentEncoding))
	return ce == "" || ce == "identity"
}

func isText(contentType string) bool {
	ct := strings.ToLower(contentType)
	if ct == "" {
		return true
	}
	for _, prefix := range []string{"text/", "application/json", "application/xml", "application/javascript"} {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return strings.Contains(ct, "+json") || strings.Contains(ct, "+xml")
}
