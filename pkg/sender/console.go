package sender

import (
	"context"
	"fmt"
	"io"
)

// ConsoleSender writes each payload to a writer instead of the network,
// one JSON document per line. It backs dry runs.
type ConsoleSender struct {
	out io.Writer
}

// NewConsoleSender returns a sender that writes payloads to out.
func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

// Send writes the payload followed by a newline.
func (s *ConsoleSender) Send(_ context.Context, payload []byte) error {
	if _, err := fmt.Fprintf(s.out, "%s\n", payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Close is a no-op.
func (*ConsoleSender) Close() error {
	return nil
}
