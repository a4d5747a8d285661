package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/blogery/internal/blog"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/internal/handler"
	"github.com/VitaminP8/blogery/internal/mail"
	"github.com/VitaminP8/blogery/internal/password"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/session"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/internal/storage/postgres"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/user"
)

func main() {
	storageType := flag.String("storage", "", "storage backend: postgres or memory (default: $STORAGE or postgres)")
	flag.Parse()

	config.LoadEnv()

	cfg, err := config.Load(*storageType)
	if err != nil {
		log.Fatal(err)
	}

	hasher := password.NewHasher(cfg.Auth.PasswordIterations)

	var postStore post.PostStorage
	var commentStore comment.CommentStorage
	var userStore user.UserStorage
	var sessionStore session.SessionStorage

	switch cfg.Storage {
	case config.StoragePostgres:
		if err := postgres.InitDB(cfg.DB); err != nil {
			log.Fatal(err)
		}
		if err := postgres.Migrate(postgres.DB); err != nil {
			log.Fatal(err)
		}

		log.Println("using PostgreSQL storage")
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		userStore = postgres.NewUserPostgresStorage(hasher)
		sessionStore = postgres.NewSessionPostgresStorage()

	case config.StorageMemory:
		log.Println("WARNING: using in-memory storage, accounts, sessions and posts are lost on restart")
		db := memory.NewDatabase()
		postStore = memory.NewPostMemoryStorage(db)
		commentStore = memory.NewCommentMemoryStorage(db)
		userStore = memory.NewUserMemoryStorage(hasher)
		sessionStore = memory.NewSessionMemoryStorage()
	}

	feed := subscription.NewSubscriptionManager()
	sessions := session.NewManager(sessionStore, userStore, cfg.Auth.SecretKey, cfg.Auth.SessionIdleTimeout)
	service := blog.NewService(postStore, commentStore, userStore, feed)
	h := handler.New(userStore, sessions, service, feed, mail.NewSender(cfg.SMTP), cfg.Auth.CookieSecure)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost:%s/", cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if cfg.Storage == config.StoragePostgres {
		if err := postgres.CloseDB(); err != nil {
			log.Println(err)
		}
	}

	log.Println("server stopped")
}
