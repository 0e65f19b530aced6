package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/delaneyj/ticksignals/tick"
	"github.com/delaneyj/ticksignals/tickprom"
	"github.com/urfave/cli/v3"
)

const (
	verboseKey    = "verbose"
	metricsKey    = "metrics"
	iterationsKey = "iterations"
)

func main() {
	cmd := &cli.Command{
		Name:  "ticks",
		Usage: "Drive a dirty-checking signal machine",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log machine activity to stderr",
			},
			&cli.BoolFlag{
				Name:  metricsKey,
				Usage: "Print machine metrics in Prometheus text format on exit",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "observe",
				Usage: "Watch an int by value and a string by pointer while they change",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  iterationsKey,
						Usage: "Number of advance cycles",
						Value: 25,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m := newMachine(cmd)
					defer m.Flush()
					return withMetrics(cmd, m, func() error {
						return runObserve(os.Stdout, m, int(cmd.Int(iterationsKey)))
					})
				},
			},
			{
				Name:  "quiz",
				Usage: "Answer on stdin until the answer is y",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m := newMachine(cmd)
					defer m.Flush()
					return withMetrics(cmd, m, func() error {
						return runQuiz(os.Stdin, os.Stdout, m)
					})
				},
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newMachine(cmd *cli.Command) *tick.Machine {
	if !cmd.Root().Bool(verboseKey) {
		return tick.New()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return tick.New(tick.WithLogger(logger))
}

func withMetrics(cmd *cli.Command, m *tick.Machine, run func() error) error {
	if !cmd.Root().Bool(metricsKey) {
		return run()
	}
	c := tickprom.NewCollector(m, tickprom.WithNamespace("ticks"))
	if err := run(); err != nil {
		return err
	}
	c.Sample()
	return writeMetrics(os.Stdout, c)
}
