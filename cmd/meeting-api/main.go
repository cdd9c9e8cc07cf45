// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

// Package main is the meeting service API that coordinates gemstone handover
// meetings between buyers and sellers: lifecycle, attendance adjudication,
// no-show penalties, and reminders.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/handlers"
	"github.com/gemmarket/meeting-service/internal/infrastructure/messaging"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/internal/service"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	policy, err := loadPenaltyPolicy(flags.PolicyFile)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error loading penalty policy")
		os.Exit(1)
	}

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	clock := domain.RealClock{}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	meetingService := service.NewMeetingService(
		repos.Meeting,
		repos.User,
		messageBuilder,
		clock,
		policy,
	)
	penaltyService := service.NewPenaltyService(
		repos.User,
		repos.NoShowRecord,
		messageBuilder,
		emailService,
		clock,
		policy,
	)
	attendanceService := service.NewAttendanceService(
		repos.Meeting,
		penaltyService,
		clock,
	)
	reminderService := service.NewReminderService(
		repos.Meeting,
		repos.User,
		messageBuilder,
		emailService,
		clock,
		policy,
	)

	// Initialize handlers and the HTTP surface
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	penaltyHandler := handlers.NewPenaltyHandler(penaltyService)
	healthHandler := handlers.NewHealthHandler(meetingHandler, attendanceHandler, penaltyHandler)

	router := handlers.NewRouter(meetingHandler, attendanceHandler, penaltyHandler, healthHandler)
	httpServer := setupHTTPServer(flags, router, &gracefulCloseWG)

	startReminderSweeper(ctx, reminderService, env.ReminderSweepInterval, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}

// gracefulShutdown drains in-flight HTTP requests and the NATS connection
// before letting the process exit.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if err := natsConn.Drain(); err != nil {
		slog.With(logging.ErrKey, err).Error("error draining NATS connection")
	}

	waited := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		slog.Info("shutdown complete")
	case <-shutdownCtx.Done():
		slog.Warn("shutdown timed out, exiting anyway")
	}
}
