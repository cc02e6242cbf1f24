// internal/api/sse_handlers.go
// Server-sent events stream exposing the event bus to outside clients
// (spec §4.8, §6). Grounded on the teacher's internal/websocket/hub.go
// register/unregister-on-disconnect pattern, reshaped for SSE framing
// instead of websocket frames.

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"tourney-engine/internal/eventbus"

	"github.com/gin-gonic/gin"
)

const sseKeepaliveInterval = 30 * time.Second

// HandleEventStream writes `data: <json>\n\n` for every published event and
// a `: keepalive\n\n` comment every 30 seconds of silence (spec §6's SSE
// wire format).
func HandleEventStream(bus *eventbus.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		sub := bus.Subscribe()
		defer bus.Unsubscribe(sub)

		ticker := time.NewTicker(sseKeepaliveInterval)
		defer ticker.Stop()

		ctx := c.Request.Context()
		c.Stream(func(w io.Writer) bool {
			select {
			case evt, open := <-sub.Events():
				if !open {
					return false
				}
				body, err := json.Marshal(evt)
				if err != nil {
					return true
				}
				fmt.Fprintf(w, "data: %s\n\n", body)
				ticker.Reset(sseKeepaliveInterval)
				return true
			case <-ticker.C:
				fmt.Fprint(w, ": keepalive\n\n")
				return true
			case <-ctx.Done():
				return false
			}
		})
	}
}

// HealthCheckSSE reports how many clients are currently attached. The health
// endpoint reads the same count directly from bus.SubscriberCount.
func HealthCheckSSE(bus *eventbus.Bus) int {
	return bus.SubscriberCount()
}
