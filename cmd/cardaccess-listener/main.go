package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/access/store/sqlite"
	"github.com/fulutas/cardaccess/internal/config"
	"github.com/fulutas/cardaccess/internal/db"
	"github.com/fulutas/cardaccess/internal/hardware"
	"github.com/fulutas/cardaccess/internal/listener"
)

func main() {
	config.LoadDotenv()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "cardaccess-listener ", log.LstdFlags|log.LUTC)

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

	accessSvc := service.NewAccessService(
		sqlite.NewUserStore(conn, writer),
		sqlite.NewAccessLogStore(conn, writer),
	)

	// A PN532 driver would plug in here; the simulated reader takes card IDs
	// as typed lines on stdin.
	reader := hardware.NewSimReader(os.Stdin, logger)
	defer reader.Close()

	led := hardware.NewSimLED(17, logger)
	defer led.Cleanup()

	lst := listener.New(accessSvc, reader, led, listener.Config{
		PollTimeout: cfg.PollTimeout,
	}, logger)
	lst.Start(ctx)

	<-ctx.Done()
	lst.Stop()
	logger.Printf("card listener stopped")
}
