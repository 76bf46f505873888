package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/pkg/sse"
)

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

// Subscriber is the event source behind the stream endpoint.
type Subscriber interface {
	Subscribe(topic string) (sse.Subscription, func())
	SubscriberCount(topic string) int
}

type streamHandlerImpl struct {
	hub       Subscriber
	keepalive time.Duration
}

func NewStreamHandler(hub Subscriber) StreamHandler {
	return &streamHandlerImpl{
		hub:       hub,
		keepalive: 30 * time.Second,
	}
}

// Stream pushes punch events to dashboards as server-sent events.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub, cleanup := h.hub.Subscribe(sse.TopicAttendance)
	defer cleanup()
	slog.Debug("Stream client connected", "subscriber_id", sub.ID, "subscribers", h.hub.SubscriberCount(sse.TopicAttendance))

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"subscriber_id\":\"%s\"}\n\n", sub.ID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
