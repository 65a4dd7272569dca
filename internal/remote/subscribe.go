// ABOUTME: Change-feed subscription over a server-sent event stream.
// ABOUTME: Notices carry table and event only; consumers re-fetch on any change.
package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const changesPath = "/realtime/v1/changes"

// Change is one row-change notice. The feed covers every client's
// inserts, updates and deletes on both tables, so payloads are a cue to
// re-fetch, not data to apply.
type Change struct {
	Table string `json:"table"`
	Event string `json:"event"` // insert, update, delete, or *
}

// Subscription is a live change feed. Close releases the connection and
// waits for the delivery goroutine to stop.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops the subscription. Safe to call once the consumer's
// lifetime ends; always returns nil.
func (s *Subscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}

// Subscribe opens the change feed and invokes onChange for every notice
// until the subscription is closed or the stream drops.
func (c *Client) Subscribe(ctx context.Context, onChange func(Change)) (io.Closer, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+changesPath, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	c.setAuth(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamHC.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, &Error{Status: resp.StatusCode, Message: "subscribe rejected"}
	}

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			var ch Change
			if err := json.Unmarshal([]byte(strings.TrimSpace(line[len("data:"):])), &ch); err != nil {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			onChange(ch)
		}
		// stream dropped or context cancelled; either way we are done
	}()

	return sub, nil
}
