package sender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/logship/logship/pkg/config"
)

// HTTPSender posts payloads to an OTLP/HTTP logs endpoint.
type HTTPSender struct {
	client   *http.Client
	endpoint string
	gzip     bool
}

// NewHTTPSender builds a sender for the configured endpoint. The client
// timeout bounds each request end to end, connection dialing included.
func NewHTTPSender(cfg *config.Config) *HTTPSender {
	return &HTTPSender{
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout),
		},
		endpoint: cfg.Endpoint,
		gzip:     cfg.Gzip,
	}
}

// Send posts one payload. Responses other than 200 OK are returned as a
// *StatusError; transport failures are returned as-is.
func (s *HTTPSender) Send(ctx context.Context, payload []byte) error {
	body, encoding, err := s.encode(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused for the next record.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// Close releases idle connections held by the underlying client.
func (s *HTTPSender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *HTTPSender) encode(payload []byte) (io.Reader, string, error) {
	if !s.gzip {
		return bytes.NewReader(payload), "", nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, "", fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to compress payload: %w", err)
	}
	return &buf, "gzip", nil
}
