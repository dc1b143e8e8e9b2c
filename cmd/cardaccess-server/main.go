package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/access/store/sqlite"
	"github.com/fulutas/cardaccess/internal/config"
	"github.com/fulutas/cardaccess/internal/db"
	"github.com/fulutas/cardaccess/internal/httpapi"
)

func main() {
	config.LoadDotenv()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "cardaccess-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn); err != nil {
			logger.Fatalf("seed dev db: %v", err)
		}
	}

	writer := db.NewWorker(conn)
	defer writer.Close()

	userStore := sqlite.NewUserStore(conn, writer)
	logStore := sqlite.NewAccessLogStore(conn, writer)
	accessSvc := service.NewAccessService(userStore, logStore)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        logger,
		Addr:          cfg.HTTPAddr,
		AccessService: accessSvc,
		HistoryLimit:  cfg.HistoryLimit,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
