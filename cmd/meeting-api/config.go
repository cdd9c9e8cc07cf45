// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gemmarket/meeting-service/internal/infrastructure/email"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/internal/service"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

// flags are the command line flags for the meeting service.
type flags struct {
	Debug      bool
	Port       string
	Bind       string
	PolicyFile string
}

// environment are the environment variables for the meeting service.
type environment struct {
	Port                  string
	NatsURL               string
	ReminderSweepInterval time.Duration
	SMTP                  email.SMTPConfig
}

// parseFlags parses command line flags for the meeting service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")
	var policyFile = flag.String("policy", "", "path to the penalty policy YAML file")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug:      *debug,
		Port:       *port,
		Bind:       *bind,
		PolicyFile: *policyFile,
	}
}

// parseEnv parses environment variables for the meeting service
func parseEnv() environment {
	port := utils.CoalesceString(os.Getenv("PORT"), "8080")
	natsURL := utils.CoalesceString(os.Getenv("NATS_URL"), "nats://localhost:4222")

	smtpPort := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			slog.With("value", raw).Error("invalid SMTP_PORT, using default")
		} else {
			smtpPort = value
		}
	}

	sweepInterval := 5 * time.Minute
	if raw := os.Getenv("REMINDER_SWEEP_INTERVAL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			slog.With("value", raw).Error("invalid REMINDER_SWEEP_INTERVAL_MINUTES, using default")
		} else {
			sweepInterval = time.Duration(minutes) * time.Minute
		}
	}

	return environment{
		Port:                  port,
		NatsURL:               natsURL,
		ReminderSweepInterval: sweepInterval,
		SMTP: email.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			From:     os.Getenv("SMTP_FROM"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
	}
}

// loadPenaltyPolicy loads the penalty policy from the optional YAML file,
// applying defaults and environment overrides. Thresholds are configuration
// on purpose: product has not settled on canonical values.
func loadPenaltyPolicy(path string) (service.PenaltyPolicy, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return service.PenaltyPolicy{}, fmt.Errorf("failed to load policy file: %w", err)
		}
	}

	defaults := service.DefaultPenaltyPolicy()
	setDefault(k, "warn_threshold", defaults.WarnThreshold)
	setDefault(k, "block_threshold", defaults.BlockThreshold)
	setDefault(k, "reschedule_window_days", defaults.RescheduleWindowDays)
	setDefault(k, "reminder_lead_time", defaults.ReminderLeadTime)

	applyPolicyEnvOverrides(k)

	var policy service.PenaltyPolicy
	if err := k.UnmarshalWithConf("", &policy, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return service.PenaltyPolicy{}, fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	if policy.WarnThreshold <= 0 || policy.BlockThreshold <= policy.WarnThreshold {
		return service.PenaltyPolicy{}, fmt.Errorf(
			"invalid thresholds: warn %d must be positive and below block %d",
			policy.WarnThreshold, policy.BlockThreshold)
	}

	return policy, nil
}

func applyPolicyEnvOverrides(k *koanf.Koanf) {
	if raw := os.Getenv("NO_SHOW_WARN_THRESHOLD"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			k.Set("warn_threshold", value)
		}
	}
	if raw := os.Getenv("NO_SHOW_BLOCK_THRESHOLD"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			k.Set("block_threshold", value)
		}
	}
	if raw := os.Getenv("RESCHEDULE_WINDOW_DAYS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			k.Set("reschedule_window_days", value)
		}
	}
	if raw := os.Getenv("REMINDER_LEAD_TIME"); raw != "" {
		if value, err := time.ParseDuration(raw); err == nil {
			k.Set("reminder_lead_time", value)
		}
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
