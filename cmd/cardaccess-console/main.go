package main

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulutas/cardaccess/internal/access/service"
	"github.com/fulutas/cardaccess/internal/access/store/sqlite"
	"github.com/fulutas/cardaccess/internal/config"
	"github.com/fulutas/cardaccess/internal/console"
	"github.com/fulutas/cardaccess/internal/db"
	"github.com/fulutas/cardaccess/internal/hardware"
)

func main() {
	config.LoadDotenv()
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "cardaccess-console ", log.LstdFlags|log.LUTC)

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

	// One buffered reader over stdin, shared by the menu and the simulated
	// card reader so neither steals the other's input lines.
	stdin := bufio.NewReader(os.Stdin)
	reader := hardware.NewSimReader(stdin, logger)
	defer reader.Close()

	led := hardware.NewSimLED(17, logger)
	defer led.Cleanup()

	c := console.New(accessSvc, reader, led, stdin, os.Stdout, console.Config{
		InlineRegistration: cfg.InlineRegistration,
	})

	if err := c.Run(ctx); err != nil && err != io.EOF {
		logger.Fatalf("console: %v", err)
	}
}
