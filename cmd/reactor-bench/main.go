// Command reactor-bench runs a churn-heavy workload against a world and reports reconciliation
// statistics. It can write a CPU or memory profile for inspection:
//
//	reactor-bench --profile cpu --out /tmp
//	go tool pprof -http=":8000" /tmp/cpu.pprof
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/argus-labs/reactor/pkg/telemetry"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type benchOptions struct {
	entities  int
	worlds    int
	ticks     int
	churn     float64
	iterative bool
	profile   string
	out       string
	seed      uint64
}

func main() {
	opts := benchOptions{}
	cmd := &cobra.Command{
		Use:   "reactor-bench",
		Short: "Measure structural change throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.entities, "entities", 10_000, "number of live entities")
	flags.IntVar(&opts.worlds, "worlds", 1, "number of independent worlds updated concurrently")
	flags.IntVar(&opts.ticks, "ticks", 1_000, "number of world updates")
	flags.Float64Var(&opts.churn, "churn", 0.05, "fraction of entities structurally changed per tick")
	flags.BoolVar(&opts.iterative, "iterative", false, "reconcile after every system")
	flags.StringVar(&opts.profile, "profile", "", "write a profile: cpu, mem or empty for none")
	flags.StringVar(&opts.out, "out", ".", "profile output directory")
	flags.Uint64Var(&opts.seed, "seed", 1, "random seed")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, true)) //nolint:forbidigo // CLI output
		os.Exit(1)
	}
}

func run(ctx context.Context, opts benchOptions) error {
	tel, err := telemetry.New(telemetry.Options{ServiceName: "reactor-bench"})
	if err != nil {
		return eris.Wrap(err, "failed to set up telemetry")
	}
	if opts.worlds < 1 {
		return eris.Errorf("worlds must be at least 1, got %d", opts.worlds)
	}

	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.out), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(opts.out), profile.NoShutdownHook).Stop()
	default:
		return eris.Errorf("unknown profile mode %q, must be cpu or mem", opts.profile)
	}

	// Worlds share nothing, so each one runs on its own goroutine.
	g, ctx := errgroup.WithContext(ctx)
	for i := range opts.worlds {
		g.Go(func() error {
			return runWorld(ctx, tel.GetLogger("world").With().Int("world", i).Logger(), opts, opts.seed+uint64(i))
		})
	}
	return g.Wait()
}

func runWorld(ctx context.Context, log zerolog.Logger, opts benchOptions, seed uint64) error {
	w := ecs.NewWorld(ecs.WithIterativeRebuild(opts.iterative), ecs.WithLogger(log))
	prng := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // not for security

	w.CreateGroup("churn", 1).Add(&churn{world: w, prng: prng, rate: opts.churn, target: opts.entities})
	w.CreateGroup("simulation", 1).Add(ecs.NewEntitySystem("movement", ecs.ProcessorFunc(move),
		ecs.All[*Position](), ecs.All[*Velocity](), ecs.Exclude[*Frozen]()))
	speeds := ecs.CreateDataCache(w, "speeds", w.Aspect(ecs.All[*Velocity]()), func(e *ecs.Entity) float64 {
		v := ecs.Get[*Velocity](e)
		return v.X*v.X + v.Y*v.Y
	})
	w.RequestIndex("wounded", w.Aspect(ecs.All[*Health](), ecs.Any[*Frozen](), ecs.Any[*Velocity]()))

	start := time.Now()
	dt := time.Second / 60
	for i := range opts.ticks {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "benchmark interrupted")
		}
		w.Update(time.Duration(i)*dt, dt, ecs.AllSystems)
	}
	elapsed := time.Since(start)

	stats := w.Stats()
	log.Info().
		Int("ticks", opts.ticks).
		Dur("elapsed", elapsed).
		Dur("per_tick", elapsed/time.Duration(max(opts.ticks, 1))).
		Uint64("reconciles", stats.Reconciles).
		Uint64("passes", stats.Passes).
		Uint64("notifications", stats.Notifications).
		Uint64("erased", stats.EntitiesErased).
		Int("entities", w.EntityCount()).
		Int("cached_speeds", speeds.Len()).
		Msg("benchmark finished")
	return nil
}
