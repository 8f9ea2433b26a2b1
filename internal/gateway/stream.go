package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/suracI-invert/mock-frontend/internal/models"
)

// TokenStream is a finite sequence of text chunks from the chat endpoint.
// Recv returns chunks in arrival order and io.EOF when the stream is
// exhausted. A stream that breaks mid-flight also ends with io.EOF: the
// partial text already received stands as the complete response.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

type chatStream struct {
	body    io.ReadCloser
	cancel  context.CancelFunc
	buf     []byte
	pending []byte
	done    bool
}

// Recv returns the next chunk. Chunks never split a UTF-8 rune: a partial
// rune at the end of a read is held back and emitted with the next one.
func (s *chatStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for {
		n, err := s.body.Read(s.buf)
		if n > 0 {
			data := append(s.pending, s.buf[:n]...)
			s.pending = nil
			if err != nil {
				// Stream is over; a partial tail stands as-is.
				s.done = true
				return string(data), nil
			}
			if cut := partialRuneStart(data); cut < len(data) {
				s.pending = append([]byte(nil), data[cut:]...)
				data = data[:cut]
			}
			if len(data) > 0 {
				return string(data), nil
			}
			continue
		}
		if err != nil {
			s.done = true
			if len(s.pending) > 0 {
				tail := string(s.pending)
				s.pending = nil
				return tail, nil
			}
			return "", io.EOF
		}
		// A (0, nil) read is legal under io.Reader; read again.
	}
}

// partialRuneStart returns the index where a trailing incomplete rune
// begins, or len(data) when the data ends on a rune boundary.
func partialRuneStart(data []byte) int {
	for i := len(data) - 1; i >= 0 && len(data)-i < utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				return i
			}
			break
		}
	}
	return len(data)
}

func (s *chatStream) Close() error {
	s.done = true
	s.cancel()
	return s.body.Close()
}

// StreamChat opens the backend's chat stream for one turn. Consuming the
// returned TokenStream is the only way to observe the response; the caller
// must Close it when done.
func (c *Client) StreamChat(ctx context.Context, req models.ChatStreamRequest) (TokenStream, error) {
	const op = "chat stream"

	ctx, cancel := context.WithTimeout(ctx, c.streamTimeout)

	httpReq, err := newJSONRequest(ctx, http.MethodPost, c.endpoint("chat/v1/stream"), req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, &BackendError{Op: op, StatusCode: resp.StatusCode}
	}

	return &chatStream{
		body:   resp.Body,
		cancel: cancel,
		buf:    make([]byte, 512),
	}, nil
}
