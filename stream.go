package respond

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/lumenchat/respond/internal/fallback"
	"github.com/lumenchat/respond/internal/metrics"
	"github.com/lumenchat/respond/pkg/types"
)

var dataPrefix = []byte("data: ")

// Stream provides an iterator interface for a streaming response. It handles
// SSE frame reassembly and exposes a simple Recv method that yields text
// fragments in arrival order.
//
// A malformed frame is logged and skipped; one bad event must not kill an
// otherwise-good stream. A transport failure mid-stream yields exactly one
// fallback fragment before io.EOF. Cancellation surfaces as the context's
// error, never as a fallback.
type Stream struct {
	ctx     context.Context
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *slog.Logger

	closed  bool
	pending string // fallback fragment queued after a transport failure

	mu sync.Mutex
}

// maxFrameSize bounds a single frame. Completion deltas are small, but a
// model can pack a whole code block into one event.
const maxFrameSize = 1 << 20

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)

	return &Stream{
		ctx:     ctx,
		body:    body,
		scanner: scanner,
		logger:  logger,
	}
}

// newFallbackStream returns a stream that delivers one canned fragment and
// then ends. Used when the connection could not be opened at all.
func newFallbackStream(text string) *Stream {
	return &Stream{
		ctx:     context.Background(),
		closed:  true,
		pending: text,
	}
}

// Recv returns the next text fragment from the stream.
// Returns io.EOF when the stream is complete, or the context's error when
// the caller canceled.
func (s *Stream) Recv() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != "" {
		text := s.pending
		s.pending = ""
		return text, nil
	}

	if s.closed {
		return "", io.EOF
	}

	for {
		// Cancellation is observed at read boundaries, not mid-parse.
		if err := s.ctx.Err(); err != nil {
			s.close()
			return "", err
		}

		if !s.scanner.Scan() {
			break
		}

		frame := bytes.TrimSpace(s.scanner.Bytes())
		if len(frame) == 0 {
			continue
		}

		frame = bytes.TrimPrefix(frame, dataPrefix)

		// The sentinel ends the stream; any buffered remainder is discarded.
		if bytes.Equal(frame, []byte("[DONE]")) {
			s.close()
			return "", io.EOF
		}

		text, _, err := types.ExtractStreamText(frame)
		if err != nil {
			metrics.MalformedFramesTotal.Inc()
			s.logger.Warn("malformed stream frame skipped", "error", err)
			continue
		}
		if text == "" {
			// Contentless event (role announcement, ping, stop marker).
			continue
		}

		metrics.StreamChunksTotal.Inc()
		return text, nil
	}

	if err := s.scanner.Err(); err != nil {
		s.close()
		if s.ctx.Err() != nil {
			return "", s.ctx.Err()
		}
		// Terminal transport failure: substitute a single fallback fragment.
		s.logger.Warn("stream transport failed, serving fallback", "error", err)
		metrics.FallbacksTotal.WithLabelValues(string(fallback.KindError)).Inc()
		return fallback.Pick(fallback.KindError), nil
	}

	// Stream ended normally without a [DONE] sentinel.
	s.close()
	return "", io.EOF
}

// Close releases the underlying connection. Safe to call multiple times.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.close()
}

// close must be called with the lock held.
func (s *Stream) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.body == nil {
		return nil
	}
	return s.body.Close()
}
