package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/auth"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/tcp"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	mask, err := CharacterRune(config.CensorReplacement)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry(config.MaxClients)
	queue := runtime.NewEventQueue()
	orchestrator := runtime.NewOrchestrator(log, supervisor, registry, queue, mask, config.MetricInterval)

	if err := orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	guard := auth.NewGuard(config.Password)

	server := tcp.NewServer(log, orchestrator, guard, config.ConnectionBufferSize)
	if err := server.Listen(fmt.Sprintf("%s:%d", config.Host, config.Port)); err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting relay server", "address", server.Addr(), "at", time.Now().UTC())
		if err := server.Serve(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		server.Shutdown()
		orchestrator.Stop()
		return err
	}

	server.Shutdown()
	orchestrator.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
