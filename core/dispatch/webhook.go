package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tablediff/core/errs"
)

const maxErrorBody = 200

// WebhookSink posts each difference to an HTTP endpoint.
type WebhookSink struct {
	cfg      WebhookConfig
	headers  map[string]string
	template *Template
	client   *http.Client
}

// NewWebhookSink validates cfg and returns a sink. A nil client gets one with the
// configured timeout.
func NewWebhookSink(cfg WebhookConfig, client *http.Client) (*WebhookSink, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook url is required")
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	cfg.Method = strings.ToUpper(cfg.Method)
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = "X-API-Key"
	}

	switch cfg.AuthType {
	case "", "none", "bearer", "basic", "api_key":
	default:
		return nil, fmt.Errorf("unsupported webhook auth type %q", cfg.AuthType)
	}

	s := &WebhookSink{cfg: cfg, headers: cfg.HeaderMap(), client: client}
	if s.client == nil {
		s.client = &http.Client{Timeout: cfg.Timeout()}
	}
	if strings.TrimSpace(cfg.PayloadTemplate) != "" {
		t, err := ParseTemplate(cfg.PayloadTemplate)
		if err != nil {
			return nil, err
		}
		s.template = t
	}
	return s, nil
}

// Send implements Sink. Any non-2xx response is a failure.
func (s *WebhookSink) Send(ctx context.Context, p Payload) error {
	body, err := s.body(p)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDispatch, err)
	}

	var reader io.Reader
	if s.cfg.Method != http.MethodGet {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, s.cfg.Method, s.cfg.URL, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDispatch, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range s.headers {
		req.Header.Set(name, value)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrDispatch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d: %s", errs.ErrDispatch, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *WebhookSink) body(p Payload) ([]byte, error) {
	if s.template != nil {
		return s.template.Render(p)
	}
	return encodeDefault(p)
}

func (s *WebhookSink) authorize(req *http.Request) {
	switch s.cfg.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	case "basic":
		req.SetBasicAuth(s.cfg.Username, s.cfg.Password)
	case "api_key":
		req.Header.Set(s.cfg.APIKeyHeader, s.cfg.APIKey)
	}
}

// Close implements Sink.
func (s *WebhookSink) Close(context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}
