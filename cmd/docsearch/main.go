// docsearch is the document-archive search backend: it translates natural
// language into SQL against the archive index, serves controlled file
// access, and hosts the two chat modes.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/usmedlab/docsearch/internal/chat"
	"github.com/usmedlab/docsearch/internal/config"
	"github.com/usmedlab/docsearch/internal/fileguard"
	"github.com/usmedlab/docsearch/internal/oracle"
	"github.com/usmedlab/docsearch/internal/server"
	"github.com/usmedlab/docsearch/internal/sqlexec"
	"github.com/usmedlab/docsearch/internal/synthesizer"
	"github.com/usmedlab/docsearch/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	guard, err := fileguard.New(cfg.FileBasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FileBasePath).Msg("Failed to resolve file base path")
	}

	oracleClient := oracle.NewClient(cfg.OracleKey, cfg.OracleModel, cfg.OracleTimeout())
	synth := synthesizer.New(oracleClient)
	exec := sqlexec.New(cfg.DSN(), cfg.ConnectTimeout())
	chats := chat.NewStore(cfg.StoreDir, oracleClient)

	svc := server.New(cfg, synth, exec, chats, guard)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Restart-on-config-change: the supervisor brings the process back up
	// with the new settings.
	if *configPath != "" {
		w, err := watcher.New(*configPath, func() {
			log.Info().Msg("Config changed, exiting for restart")
			os.Exit(0)
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create config watcher")
		} else if err := w.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start config watcher")
		} else {
			defer w.Stop()
		}
	}

	log.Info().
		Int("port", cfg.Port).
		Str("model", cfg.OracleModel).
		Str("store", cfg.StoreDir).
		Str("files", guard.Root()).
		Msg("Starting docsearch")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.ListenAndServe(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
	log.Info().Msg("Shutdown complete")
}
