// Package handler is the JSON HTTP surface of the blog.
package handler

import (
	"net/http"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/blog"
	"github.com/VitaminP8/blogery/internal/mail"
	"github.com/VitaminP8/blogery/internal/session"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const requestTimeout = 60 * time.Second

type Handler struct {
	users        user.UserStorage
	sessions     *session.Manager
	blog         *blog.Service
	feed         subscription.Manager
	mailer       mail.Sender
	cookieSecure bool
}

func New(users user.UserStorage, sessions *session.Manager, service *blog.Service, feed subscription.Manager, mailer mail.Sender, cookieSecure bool) *Handler {
	return &Handler{
		users:        users,
		sessions:     sessions,
		blog:         service,
		feed:         feed,
		mailer:       mailer,
		cookieSecure: cookieSecure,
	}
}

// Router wires every route. Mutating post routes are guarded here as well
// as inside the blog service.
func (h *Handler) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(h.sessions.Middleware)

	r.Get("/health", h.health)

	// long-lived, so outside the request timeout
	r.Get("/posts/{postID}/comments/stream", h.streamComments)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
		r.Post("/contact", h.contact)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.listPosts)
			r.With(auth.Require(auth.RolePrivileged, writeError)).Post("/", h.createPost)

			r.Route("/{postID}", func(r chi.Router) {
				r.Get("/", h.getPost)
				r.With(auth.Require(auth.RolePrivileged, writeError)).Put("/", h.updatePost)
				r.With(auth.Require(auth.RolePrivileged, writeError)).Delete("/", h.deletePost)

				r.Get("/comments", h.listComments)
				r.With(auth.Require(auth.RoleAuthenticated, writeError)).Post("/comments", h.addComment)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
