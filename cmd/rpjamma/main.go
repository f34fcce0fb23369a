// Package main provides the rpjamma binary: draft a party on the terminal and
// fight generated enemy parties until you stop.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpjamma/internal/config"
	"github.com/cory-johannsen/rpjamma/internal/frontend/console"
	"github.com/cory-johannsen/rpjamma/internal/game/character"
	"github.com/cory-johannsen/rpjamma/internal/game/combat"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/game/ruleset"
	"github.com/cory-johannsen/rpjamma/internal/game/session"
	"github.com/cory-johannsen/rpjamma/internal/observability"
	"github.com/cory-johannsen/rpjamma/internal/scripting"
	"github.com/cory-johannsen/rpjamma/internal/server"
	"github.com/cory-johannsen/rpjamma/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty = defaults + RPJ_* env)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var src dice.Source
	if cfg.Game.Seed != 0 {
		src = dice.NewSeededSource(cfg.Game.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	table, err := ruleset.LoadTable(cfg.Game.ArchetypesDir)
	if err != nil {
		logger.Fatal("loading archetypes", zap.Error(err))
	}

	nameBackend, err := storage.OpenNames(ctx, cfg, src)
	if err != nil {
		logger.Fatal("opening names", zap.Error(err))
	}
	defer nameBackend.Close()

	var chooser combat.TargetChooser
	var scripts *scripting.Manager
	if cfg.Game.ScriptDir != "" {
		scripts = scripting.NewManager(roller, logger)
		keys, err := scripts.LoadTree(cfg.Game.ScriptDir, cfg.Game.ScriptInstructionLimit)
		if err != nil {
			logger.Fatal("loading targeting scripts", zap.Error(err))
		}
		logger.Info("targeting scripts loaded", zap.Strings("sets", keys))
		chooser = scripting.NewChooser(scripts, roller)
	}

	cries := console.DefaultCries()
	if cfg.Game.CriesPath != "" {
		if cries, err = console.LoadCries(cfg.Game.CriesPath); err != nil {
			logger.Fatal("loading cries", zap.Error(err))
		}
	}

	con := console.New(os.Stdin, os.Stdout, cfg.Game.Color)
	renderer := console.NewRenderer(con, roller, cries, cfg.Game.Pause)

	sess := session.New(session.Deps{
		Generator: character.NewGenerator(table, nameBackend.Provider(), roller, logger),
		Prompter:  con,
		Asker:     con,
		Input:     con,
		Chooser:   chooser,
		Narrator:  renderer,
		Source:    roller,
		Logger:    logger,
	}, session.Options{
		PartySize:  cfg.Game.PartySize,
		DraftPool:  cfg.Game.DraftPool,
		EnemyCount: cfg.Game.EnemyCount,
		MaxRounds:  cfg.Game.MaxRounds,
	})

	logger.Info("starting rpjamma",
		zap.String("names", nameBackend.Backend),
		zap.Bool("seeded", cfg.Game.Seed != 0),
		zap.Duration("startup", time.Since(start)),
	)

	lc := server.NewLifecycle(logger)
	lc.Add("session", &server.FuncService{
		StartFn: sess.Play,
		StopFn: func() {
			if scripts != nil {
				scripts.Close()
			}
		},
	})
	runErr := lc.Run(ctx)

	tally := sess.Tally()
	logger.Info("session summary",
		zap.Int("battles", tally.Battles()),
		zap.Int("victories", tally.Count(combat.PlayerVictory)),
		zap.Int("defeats", tally.Count(combat.PlayerDefeat)),
		zap.Int("draws", tally.Count(combat.Draw)),
	)
	renderer.Farewell()

	if runErr != nil {
		logger.Error("session ended with error", zap.Error(runErr))
		_ = logger.Sync()
		os.Exit(1)
	}
}
