package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedapp/feedsync-client/internal/config"
	"github.com/feedapp/feedsync-client/internal/feed"
	"github.com/feedapp/feedsync-client/internal/logger"
	"github.com/feedapp/feedsync-client/internal/model"
	"github.com/feedapp/feedsync-client/internal/repository/memory"
	"github.com/feedapp/feedsync-client/internal/repository/rest"
	"github.com/feedapp/feedsync-client/internal/service"
	"github.com/feedapp/feedsync-client/internal/session"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logger.Info("Starting feed client",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit,
	)

	var (
		sess model.Session
		repo model.Repository
	)
	if cfg.Auth.Token != "" {
		jwtSession, err := session.NewJWT(cfg.Auth.Token, cfg.Auth.Secret)
		if err != nil {
			logger.Fatal("failed to initialize session", "error", err)
		}
		sess = jwtSession
		repo = rest.NewClient(cfg.API.BaseURL, cfg.Auth.Token, cfg.API.Timeout)
	} else {
		logger.Warn("No auth token configured, using local in-memory backend")
		sess = session.Static{User: model.User{ID: "local", Name: "Local User", Email: "local@example.com"}}
		repo = memory.NewRepository(sess)
	}

	store := feed.NewStore()
	interaction := service.NewInteraction(repo, store, sess, logger)

	if cfg.Auth.Token == "" {
		if _, err := interaction.CreatePost(ctx, "Hello from the local backend", ""); err != nil {
			logger.Fatal("failed to seed local feed", "error", err)
		}
	}

	if err := interaction.Load(ctx); err != nil {
		logger.Fatal("failed to load feed", "error", err)
	}

	user, _ := sess.CurrentUser()
	for _, post := range store.All() {
		liked := " "
		if post.LikedBy(user.ID) {
			liked = "*"
		}
		fmt.Printf("%s [%s] %s: %s (%d likes, %d comments)\n",
			liked,
			post.CreatedAt.Format(time.RFC822),
			post.Author.Name,
			post.Content,
			len(post.Likes),
			len(post.Comments),
		)
	}

	logger.Info("Feed loaded", "posts", store.Len())
}
