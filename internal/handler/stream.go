package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/VitaminP8/blogery/internal/auth"
)

const keepAliveInterval = 25 * time.Second

// streamComments sends new comments of a post as server-sent events.
func (h *Handler) streamComments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.blog.GetPost(auth.PrincipalFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, apperror.NewInternalError("streaming unsupported", nil))
		return
	}

	comments, cancel := h.feed.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case c, open := <-comments:
			if !open {
				return
			}
			data, err := json.Marshal(c)
			if err != nil {
				log.Printf("stream: failed to encode comment %d: %v", c.ID, err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: comment\ndata: %s\n\n", c.ID, data)
			flusher.Flush()
		}
	}
}
