package main

import (
	"context"
	"errors"
	logg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillarena/backend/internal/api"
	"github.com/skillarena/backend/internal/config"
	"github.com/skillarena/backend/internal/repository"
	srv "github.com/skillarena/backend/internal/service"
	"github.com/skillarena/backend/internal/storage"
	"github.com/skillarena/backend/internal/ws"
	"github.com/skillarena/backend/pkg/logger"
	"github.com/skillarena/backend/pkg/tarantool"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		logg.Fatalf("failed to load config: %s", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		logg.Fatalf("failed to initalize logger: %s", err)
	}
	conn, err := tarantool.New(cfg.Tarantool)
	if err != nil {
		logg.Fatalf("failed to connect to Tarantool: %s", err)
	}

	store := storage.NewTarantoolStore(conn, log)
	hub := ws.NewHub(log)

	competitionRepo := repository.NewCompetitionRepository(store, log)
	votingRepo := repository.NewVotingRepository(store, log)
	chatRepo := repository.NewChatRepository(store, log)
	menuRepo := repository.NewMenuRepository(store, log)

	votingService := srv.NewVotingService(votingRepo, hub, log)
	competitionService := srv.NewCompetitionService(competitionRepo, votingService, hub, log)
	chatService := srv.NewChatService(chatRepo, competitionRepo, hub, log)
	menuService := srv.NewMenuService(menuRepo, log)

	router := api.NewRouter(api.Handlers{
		Competitions: api.NewCompetitionHandler(competitionService, log),
		Voting:       api.NewVotingHandler(votingService, log),
		Chat:         api.NewChatHandler(chatService, log),
		Menu:         api.NewMenuHandler(menuService, log),
		WS:           api.NewWSHandler(hub, competitionService, log),
	})

	server := &http.Server{
		Addr:    ":" + cfg.RestPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.RestPort))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalf("server error: %s", err)
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	conn.CloseGraceful()
	logg.Println("server graceful stopped")
}
