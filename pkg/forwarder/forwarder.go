// Package forwarder runs the line-by-line forwarding loop: read the input
// file, deliver one payload per line, tally outcomes and report them.
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	"github.com/logship/logship/pkg/metrics"
	"github.com/logship/logship/pkg/otlp"
	"github.com/logship/logship/pkg/sender"
)

// progressEvery is the processed-count cadence of progress lines.
const progressEvery = 500

// previewLen bounds the line preview shown in failure diagnostics.
const previewLen = 80

// Options adjusts a run. The zero value of Out means os.Stdout.
type Options struct {
	// BatchSize groups lines for progress-reporting cadence only; every
	// line is still delivered with its own call.
	BatchSize int

	// Rate caps deliveries per second. Zero means unlimited.
	Rate float64

	// Endpoint is echoed in the banner; delivery itself is the sender's
	// concern.
	Endpoint string

	// Out receives the banner, progress, diagnostics and summary.
	Out io.Writer
}

// Forwarder drives one sequential run. A single goroutine owns the loop and
// the counters.
type Forwarder struct {
	builder *otlp.Builder
	sender  sender.Sender
	limiter *rate.Limiter
	opts    Options
}

// New builds a forwarder from its collaborators.
func New(builder *otlp.Builder, snd sender.Sender, opts Options) *Forwarder {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}

	f := &Forwarder{
		builder: builder,
		sender:  snd,
		opts:    opts,
	}
	if opts.Rate > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return f
}

// ReadLines loads the file at path and returns its non-empty lines with
// surrounding whitespace trimmed.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the user via CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("log file %s is not valid UTF-8", path)
	}

	var lines []string
	for _, raw := range strings.Split(string(data), "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Run forwards every line of the file at path and returns the run tally.
// Reading the file is the only fatal failure; per-line delivery failures are
// counted, reported and skipped past. Cancelling ctx stops the run between
// sends and the summary still covers what completed.
func (f *Forwarder) Run(ctx context.Context, path string) (*Stats, error) {
	fmt.Fprintf(f.opts.Out, "Reading logs from: %s\n", path)

	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	total := len(lines)

	fmt.Fprintf(f.opts.Out, "Found %d log lines\n", total)
	fmt.Fprintf(f.opts.Out, "Sending to: %s\n", f.opts.Endpoint)
	fmt.Fprintln(f.opts.Out)

	stats := &Stats{}
	start := time.Now()

batches:
	for i := 0; i < total; i += f.opts.BatchSize {
		end := min(i+f.opts.BatchSize, total)

		for _, line := range lines[i:end] {
			if ctx.Err() != nil {
				break batches
			}
			if f.limiter != nil {
				if err := f.limiter.Wait(ctx); err != nil {
					break batches
				}
			}
			f.send(ctx, line, stats)
		}

		if processed := stats.Sent + stats.Failed; processed > 0 && processed%progressEvery == 0 {
			interim := *stats
			interim.Elapsed = time.Since(start)
			fmt.Fprintf(f.opts.Out, "Progress: %d/%d logs sent (%.0f logs/sec)\n",
				stats.Sent, total, interim.Rate())
		}
	}

	stats.Elapsed = time.Since(start)
	f.printSummary(stats)
	return stats, nil
}

func (f *Forwarder) send(ctx context.Context, line string, stats *Stats) {
	payload, err := f.builder.Marshal(line, time.Now())
	if err != nil {
		stats.Failed++
		metrics.LinesFailed.Inc()
		fmt.Fprintf(f.opts.Out, "Error sending log: %v\n", err)
		return
	}

	if err := f.sender.Send(ctx, payload); err != nil {
		stats.Failed++
		metrics.LinesFailed.Inc()

		var statusErr *sender.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintf(f.opts.Out, "Failed to send log (status %d): %s...\n",
				statusErr.Code, preview(line))
		} else {
			fmt.Fprintf(f.opts.Out, "Error sending log: %v\n", err)
		}
		return
	}

	stats.Sent++
	metrics.LinesSent.Inc()
}

func (f *Forwarder) printSummary(stats *Stats) {
	rule := strings.Repeat("=", 60)
	p := message.NewPrinter(language.English)

	fmt.Fprintln(f.opts.Out)
	fmt.Fprintln(f.opts.Out, rule)
	fmt.Fprintln(f.opts.Out, "✓ Complete!")
	p.Fprintf(f.opts.Out, "  Sent:    %d logs\n", stats.Sent)
	p.Fprintf(f.opts.Out, "  Failed:  %d logs\n", stats.Failed)
	fmt.Fprintf(f.opts.Out, "  Time:    %.2fs\n", stats.Elapsed.Seconds())
	fmt.Fprintf(f.opts.Out, "  Rate:    %.0f logs/sec\n", stats.Rate())
	fmt.Fprintln(f.opts.Out, rule)
}

// preview truncates a line to its first 80 runes for diagnostics.
func preview(line string) string {
	runes := []rune(line)
	if len(runes) > previewLen {
		runes = runes[:previewLen]
	}
	return string(runes)
}
