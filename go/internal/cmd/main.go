package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/playgroundhq/playground-reminder/go/clients/solapi_client"
	"github.com/playgroundhq/playground-reminder/go/internal/dynamo"
	"github.com/playgroundhq/playground-reminder/go/internal/reminder"
	"github.com/playgroundhq/playground-reminder/go/internal/reminder/events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	once := flag.Bool("once", false, "run a single invocation and exit (for external cron triggers)")
	flag.Parse()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := loadConfigFromEnv()
	tables := dynamo.NewConfigFromEnv()

	windows, err := loadWindows(cfg.WindowsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load window policy")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dynamo.NewClient(ctx, tables)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create DynamoDB client")
	}

	gateway := solapi_client.NewSolapiClient(cfg.SolapiAPIKey, cfg.SolapiAPISecret, cfg.SolapiSender, cfg.KakaoPfID)

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect event publisher")
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		log.Info().Msg("NATS_URL not set - reminder events disabled")
	}

	app := setupReminderApp(db, tables, windows, gateway, publisher)

	log.Info().
		Str("matches_table", tables.MatchesTable).
		Str("members_table", tables.TeamMembersTable).
		Str("attendance_table", tables.AttendanceTable).
		Bool("gateway_configured", gateway.IsConfigured()).
		Int("windows", len(windows)).
		Msg("starting attendance reminder service")

	if *once {
		summary, err := app.RunOnce(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("reminder run failed")
		}
		log.Info().Interface("summary", summary).Msg("single invocation complete")
		return
	}

	// Daemon mode: hourly trigger loop plus operator health endpoint.
	tracker := reminder.NewHealthTracker(2 * cfg.Interval)

	mux := http.NewServeMux()
	mux.Handle("/healthz", tracker)
	mux.Handle("/metrics", tracker.MetricsHandler())

	server := &http.Server{
		Addr:         cfg.HealthAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server failed")
		}
	}()

	loop := reminder.NewLoop(app, tracker, cfg.Interval)
	loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server shutdown failed")
	}

	log.Info().Msg("attendance reminder service shutdown complete")
}
