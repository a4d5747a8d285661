package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/VitaminP8/blogery/internal/mail"
	"github.com/VitaminP8/blogery/internal/validation"
)

const mailTimeout = 30 * time.Second

// contact hands the message to the mailer in the background. Delivery
// failures are logged and never reach the client.
func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	var msg mail.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Struct(msg); err != nil {
		writeError(w, r, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := h.mailer.Send(ctx, msg); err != nil {
			log.Printf("contact: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
