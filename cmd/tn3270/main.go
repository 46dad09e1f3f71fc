// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Command tn3270 connects to a host, presses Enter, and prints the
// first screen the host writes. It is a smoke-test front end for the
// engine, not a full interactive emulator.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/emu3270/tn3270"
)

func main() {
	var (
		configPath = flag.String("config", "", "session config TOML file")
		host       = flag.String("host", "", "host to connect to (overrides config)")
		port       = flag.Int("port", 0, "port to connect to (overrides config)")
		verbose    = flag.Bool("v", false, "enable debug logging")
		trace      = flag.Bool("vv", false, "enable protocol trace logging")
	)
	flag.Parse()

	logger := initLogger(*verbose, *trace)

	cfg := defaultSessionConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadSessionConfig(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad config")
		}
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if cfg.Host == "" {
		logger.Fatal().Msg("no host given; use -host or a config file")
	}

	os.Exit(run(cfg, logger))
}

func initLogger(verbose, trace bool) zerolog.Logger {
	var logger zerolog.Logger
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	switch {
	case trace:
		return logger.Level(zerolog.TraceLevel)
	case verbose:
		return logger.Level(zerolog.DebugLevel)
	default:
		return logger.Level(zerolog.InfoLevel)
	}
}

func run(cfg sessionConfig, logger zerolog.Logger) int {
	client := tn3270.NewClientOpts(cfg.Host, cfg.Port, tn3270.ClientOpts{
		Codepage:     cfg.Codepage,
		TerminalType: cfg.TerminalType,
		Logger:       logger,
	})

	logger.Info().
		Str("engine", tn3270.Version()).
		Str("protocol", tn3270.ProtocolVersion()).
		Msg("connecting")
	if err := client.Connect(cfg.ConnectTimeout); err != nil {
		logger.Error().Err(err).Msg("connect failed")
		return int(tn3270.CodeOf(err))
	}
	defer client.Disconnect()

	screen := tn3270.NewScreen()
	fields := tn3270.NewFieldManager()

	// Many hosts write a greeting screen unprompted; others wait for an
	// Enter. Read first, nudge on timeout.
	err := client.ReadScreen(cfg.ReadTimeout, screen, fields)
	if tn3270.CodeOf(err) == tn3270.CodeTimeout {
		logger.Debug().Msg("no greeting; sending Enter")
		if err = client.SendAID(tn3270.AIDEnter, screen.Cursor(), nil); err == nil {
			err = client.ReadScreen(cfg.ReadTimeout, screen, fields)
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("no screen from host")
		return int(tn3270.CodeOf(err))
	}

	printScreen(screen)
	logger.Info().Int("fields", fields.Count()).Msg("done")
	return 0
}

func printScreen(s *tn3270.Screen) {
	for row := 0; row < tn3270.Rows; row++ {
		line, _ := s.Row(row)
		fmt.Println(line)
	}
}
