// Package events streams session and carousel changes to browsers over
// server-sent events.
package events

import (
	"log/slog"
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/r3labs/sse/v2"
)

// HeroStream carries carousel snapshots.
const HeroStream = "hero"

// SessionStream names the stream for one view session.
func SessionStream(sessionID string) string {
	return "session-" + sessionID
}

type Broker struct {
	server    *sse.Server
	closeOnce sync.Once
}

func NewBroker() *Broker {
	server := sse.New()
	server.AutoReplay = false
	server.AutoStream = true
	server.CreateStream(HeroStream)
	return &Broker{server: server}
}

// Publish sends v as JSON to every subscriber of stream.
func (b *Broker) Publish(stream, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Unable to encode event", "stream", stream, "event", event, "err", err)
		return
	}
	if !b.server.StreamExists(stream) {
		b.server.CreateStream(stream)
	}
	b.server.Publish(stream, &sse.Event{Event: []byte(event), Data: data})
}

// RemoveStream closes a session stream and disconnects its subscribers.
func (b *Broker) RemoveStream(stream string) {
	if b.server.StreamExists(stream) {
		b.server.RemoveStream(stream)
	}
}

// ServeHTTP subscribes the client to the stream named by ?stream=.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.server.ServeHTTP(w, r)
}

// Close disconnects every subscriber. Calls after the first are no-ops.
func (b *Broker) Close() {
	b.closeOnce.Do(b.server.Close)
}
