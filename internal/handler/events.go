package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/csshost/csshost/internal/ctxkeys"
	"github.com/csshost/csshost/internal/feed"
)

// EventsHandler streams file-change events to the browser over SSE so the
// gallery can refetch on insert/update/delete instead of polling.
type EventsHandler struct {
	feed feed.Feed
}

func NewEventsHandler(changeFeed feed.Feed) *EventsHandler {
	return &EventsHandler{
		feed: changeFeed,
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	topic := ctxkeys.OwnerID(r.Context())
	if r.URL.Query().Get("topic") == feed.TopicAll {
		profile := ctxkeys.Profile(r.Context())
		if profile == nil || !profile.IsAdmin() {
			respondError(w, http.StatusForbidden, "access denied")
			return
		}
		topic = feed.TopicAll
	}

	events, cancel := h.feed.Subscribe(topic)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Op, data)
			flusher.Flush()
		}
	}
}
