package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// resultsFeed upgrades the request to a websocket and streams graded-result
// events for one quiz until the client disconnects.
func (h *Handler) resultsFeed(w http.ResponseWriter, r *http.Request) {
	quizID, err := strconv.ParseInt(r.URL.Query().Get("quiz"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "missing or invalid quiz parameter"})
		return
	}
	// Reject feeds for quizzes that do not exist before upgrading.
	if _, err := h.catalog.GetQuizDetail(r.Context(), quizID); err != nil {
		h.writeError(w, r, err)
		return
	}

	// Subscribe before completing the upgrade so a client that submits right
	// after connecting cannot miss its own event.
	events, cancel := h.feed.Subscribe(quizID)
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "err", err, "request_id", RequestIDFrom(r.Context()))
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
