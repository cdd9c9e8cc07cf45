// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/internal/service"
)

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}

// startReminderSweeper runs the reminder sweep on a fixed interval until the
// context is cancelled.
func startReminderSweeper(ctx context.Context, reminderService *service.ReminderService, interval time.Duration, gracefulCloseWG *sync.WaitGroup) {
	gracefulCloseWG.Add(1)
	go func() {
		defer gracefulCloseWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.With("interval", interval.String()).Info("starting reminder sweeper")
		for {
			select {
			case <-ctx.Done():
				slog.Info("reminder sweeper stopped")
				return
			case <-ticker.C:
				if _, err := reminderService.SweepDueReminders(ctx); err != nil {
					slog.With(logging.ErrKey, err).Error("reminder sweep failed")
				}
			}
		}
	}()
}
