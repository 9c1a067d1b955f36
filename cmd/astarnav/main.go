package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pdrpinto/astarnav/grid"
	"github.com/pdrpinto/astarnav/internal/config"
	"github.com/pdrpinto/astarnav/internal/sim"
	"github.com/pdrpinto/astarnav/journal"
	"github.com/pdrpinto/astarnav/navigator"
	"github.com/pdrpinto/astarnav/planner"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "./configs/scenario.yaml"
	}
	configPath := flag.String("config", defaultPath, "scenario configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "astarnav: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "path", configPath, "variant", cfg.Planner.Variant)

	model, err := cfg.Model()
	if err != nil {
		return err
	}
	world, err := cfg.World()
	if err != nil {
		return err
	}

	robot, err := sim.New(sim.Config{
		World:        world,
		Start:        cfg.Scenario.Start,
		Heading:      cfg.Scenario.Heading,
		SensorRadius: cfg.Scenario.SensorRadius,
		StepsPerMove: cfg.Scenario.StepsPerMove,
	})
	if err != nil {
		return err
	}

	p, err := planner.New(model,
		planner.WithLogger(logger),
		planner.WithMaxExpansions(cfg.Planner.MaxExpansions),
	)
	if err != nil {
		return err
	}

	opts := []navigator.Option{
		navigator.WithLogger(logger),
		navigator.WithMaxIterations(cfg.Loop.MaxIterations),
		navigator.WithMaxNoPath(cfg.Loop.MaxNoPath),
		navigator.WithRetryDelay(cfg.Loop.RetryDelay),
		navigator.WithGoalThreshold(model.GoalThreshold),
	}
	if cfg.Journal.URL != "" {
		j, err := journal.NewRedis(journal.Options{
			URL:    cfg.Journal.URL,
			Prefix: cfg.Journal.Prefix,
			TTL:    cfg.Journal.TTL,
		})
		if err != nil {
			return err
		}
		defer j.Close()
		opts = append(opts, navigator.WithRecorder(j))
		logger.Info("journal enabled", "url", cfg.Journal.URL, "prefix", cfg.Journal.Prefix)
	}

	loop, err := navigator.New(robot, p, cfg.Scenario.Goal, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, runErr := loop.Run(ctx)

	marks := map[grid.Position]rune{}
	for _, pos := range robot.Trajectory() {
		marks[pos] = '*'
	}
	marks[cfg.Scenario.Start] = 'S'
	marks[cfg.Scenario.Goal] = 'G'
	fmt.Print(robot.Known().Render(marks))
	fmt.Printf("session=%s reached=%t iterations=%d replans=%d no_path=%d final=%v distance=%.2f\n",
		out.Session, out.Reached, out.Iterations, out.Replans, out.NoPathRetries, out.Final, out.Distance)

	return runErr
}
