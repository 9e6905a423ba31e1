// Package main provides the gateway server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/playtally/playtally/internal/gateway"
	"github.com/playtally/playtally/internal/infra/config"
	"github.com/playtally/playtally/internal/infra/logger"
)

var (
	app        = kingpin.New("playtally-gateway", "API gateway for the playtally playlist duration reporter")
	configPath = app.Flag("config", "Path to config file").Default("config/gateway.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{Output: "stdout", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	zlog.Info().Msgf("Gateway listening on %s, forwarding to %s", cfg.Server.Addr, cfg.YouTube.BaseURL)
	if err := gateway.New(cfg).Run(); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}
