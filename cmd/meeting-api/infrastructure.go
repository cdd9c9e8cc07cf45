// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/infrastructure/email"
	"github.com/gemmarket/meeting-service/internal/infrastructure/store"
	"github.com/gemmarket/meeting-service/internal/logging"
)

// setupNATS connects to the NATS server used for both the KV store and the
// notification publishes. The connection closes via Drain on shutdown.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("gemmarket-meeting-service"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.With(logging.ErrKey, err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.With("url", c.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(c *nats.Conn) {
			gracefulCloseWG.Done()
			if c.LastError() != nil {
				slog.With(logging.ErrKey, c.LastError()).Error("NATS connection closed unexpectedly")
				// Trigger shutdown: the service cannot run without its store.
				done <- os.Interrupt
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	slog.With("url", natsConn.ConnectedUrl()).Info("connected to NATS")
	return natsConn, nil
}

// repositories bundles the KV-backed stores the services depend on.
type repositories struct {
	Meeting      domain.MeetingRepository
	User         domain.UserRepository
	NoShowRecord domain.NoShowRecordRepository
}

// getKeyValueStores creates or binds the JetStream KV buckets and wraps them
// in the domain repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{
		store.KVStoreNameMeetings,
		store.KVStoreNameUsers,
		store.KVStoreNameNoShowRecords,
	} {
		bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:  name,
			History: 5,
		})
		if err != nil {
			return nil, err
		}
		buckets[name] = bucket
	}

	return &repositories{
		Meeting:      store.NewNatsMeetingRepository(buckets[store.KVStoreNameMeetings]),
		User:         store.NewNatsUserRepository(buckets[store.KVStoreNameUsers]),
		NoShowRecord: store.NewNatsNoShowRecordRepository(buckets[store.KVStoreNameNoShowRecords]),
	}, nil
}

// setupEmailService picks the SMTP implementation when configured and the
// logging no-op otherwise, so local development needs no mail server.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTP.Host == "" {
		slog.Info("SMTP_HOST not set, using no-op email service")
		return email.NewNoOpService(), nil
	}
	return email.NewSMTPService(env.SMTP)
}
