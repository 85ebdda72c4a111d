// Package main provides the development shell for the simulation
// engine: it loads a YAML world, wires the command pipeline, and feeds
// stdin lines through intent resolution as a chosen actor, printing the
// events and errors each pass declares.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ironmarch/engine/internal/config"
	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/dice"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/intent"
	"github.com/ironmarch/engine/internal/game/pipeline"
	"github.com/ironmarch/engine/internal/game/reducers"
	"github.com/ironmarch/engine/internal/game/world"
	"github.com/ironmarch/engine/internal/observability"
	"github.com/ironmarch/engine/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty uses defaults)")
	worldPath := flag.String("world", "", "path to world YAML (overrides config)")
	actorName := flag.String("actor", "", "actor ID to play as, e.g. actor:alice")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	worldFile := cfg.World.File
	if *worldPath != "" {
		worldFile = *worldPath
	}
	projection, err := world.LoadProjectionFromFile(worldFile)
	if err != nil {
		logger.Fatal("loading world", zap.String("file", worldFile), zap.Error(err))
	}
	logger.Info("world loaded",
		zap.String("file", worldFile),
		zap.Int("places", len(projection.Places)),
		zap.Int("actors", len(projection.Actors)),
	)

	policy, err := endPolicy(cfg.Engine, logger)
	if err != nil {
		logger.Fatal("loading end policy", zap.Error(err))
	}

	dispatcher := reducers.New(policy,
		reducers.WithBattlefieldDefaults(cfg.Engine.BattlefieldLength, cfg.Engine.BattlefieldMargin),
		reducers.WithEnergyRecovery(cfg.Engine.EnergyRecovery),
	).Registry()

	ops := pipeline.NewSystemOps(dice.NewLoggedRoller(dice.NewCryptoSource(), logger))
	ctx := pipeline.NewContext(projection, ops, logger)
	resolvers := intent.DefaultResolvers()

	actorID := pickActor(projection, *actorName)
	if actorID.IsZero() {
		logger.Fatal("no actor to play as; pass -actor or add one to the world file")
	}
	logger.Info("shell ready",
		zap.String("actor", actorID.String()),
		zap.Duration("startup", time.Since(start)),
	)
	fmt.Printf("playing as %s — type commands (strike, cleave, advance, look, ...), ctrl-d to quit\n", actorID)

	scanner := bufio.NewScanner(os.Stdin)
	for prompt(); scanner.Scan(); prompt() {
		line := scanner.Text()
		in := intent.New(id.New(id.NSIntent), actorID, line)
		if cmd, ok := intent.Resolve(ctx, in, resolvers); ok {
			dispatcher.Reduce(ctx, cmd)
		}
		printPass(ctx)
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading stdin", zap.Error(err))
	}
	fmt.Println()
}

func prompt() {
	fmt.Print("> ")
}

// endPolicy selects the combat end condition: a sandboxed Lua predicate
// when configured, otherwise last team standing.
func endPolicy(cfg config.EngineConfig, logger *zap.Logger) (combat.EndPolicy, error) {
	if cfg.EndScript == "" {
		return combat.LastTeamStanding{}, nil
	}
	src, err := os.ReadFile(cfg.EndScript)
	if err != nil {
		return nil, fmt.Errorf("reading end script: %w", err)
	}
	pred, err := scripting.NewPredicate(string(src), "should_end", cfg.ScriptInstructionLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("compiling end script: %w", err)
	}
	return combat.NewScriptPolicy(pred), nil
}

// pickActor resolves the requested actor, or falls back to the first
// actor in the world by ID order.
func pickActor(p *world.Projection, name string) id.ID {
	if name != "" {
		return id.ID(name)
	}
	var first id.ID
	for actorID := range p.Actors {
		if first.IsZero() || actorID < first {
			first = actorID
		}
	}
	return first
}

// printPass drains and renders everything the last pass declared.
func printPass(ctx *pipeline.Context) {
	events, errs := ctx.Drain()
	for _, ev := range events {
		fmt.Printf("  [%s] actor=%s payload=%v\n", ev.Type, ev.Actor, ev.Payload)
	}
	for _, e := range errs {
		fmt.Printf("  error: %v\n", e.Err)
	}
}
