package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/circles/internal/config"
	loopconfig "github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/loop/server"
	"github.com/tomz197/circles/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	shutdownWait := config.GetEnvDuration("CIRCLES_SHUTDOWN_WAIT", 15*time.Second)

	hub := server.NewServer(logger.WithPrefix("hub"))
	handler := web.NewServer(hub, web.Options{
		Page:      htmlPage,
		SSHHost:   sshHost,
		MaxPoints: config.GetEnvInt("CIRCLES_MAX_POINTS", loopconfig.DefaultMaxPoints),
		Logger:    logger,
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Hijacked websocket connections are not tracked by http.Server, so the
	// hub tells each session to close before the listener goes away.
	hub.Shutdown(shutdownWait)
	handler.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
