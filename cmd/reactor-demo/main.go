// Command reactor-demo bounces particles around the terminal. Space freezes them, s stores a
// snapshot, q or Esc quits.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/argus-labs/reactor/pkg/snapshot"
	"github.com/argus-labs/reactor/pkg/telemetry"
	"github.com/argus-labs/reactor/pkg/termview"
	"github.com/gdamore/tcell/v2"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type demoOptions struct {
	particles int
	fps       int
	logFile   string
	seed      uint64
}

func main() {
	opts := demoOptions{}
	cmd := &cobra.Command{
		Use:   "reactor-demo",
		Short: "Bounce particles around the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.particles, "particles", 200, "number of live particles")
	cmd.Flags().IntVar(&opts.fps, "fps", 30, "frames per second")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "random seed") //nolint:gosec // it's ok

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of every demo component",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSchemas(cmd.OutOrStdout())
		},
	})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, true)) //nolint:forbidigo // CLI output
		os.Exit(1)
	}
}

func run(ctx context.Context, opts demoOptions) error {
	logOut := io.Discard
	if opts.logFile != "" {
		f, err := os.Create(opts.logFile)
		if err != nil {
			return eris.Wrap(err, "failed to open log file")
		}
		defer f.Close()
		logOut = f
	}
	tel, err := telemetry.NewWithWriter(logOut, telemetry.Options{ServiceName: "reactor-demo"})
	if err != nil {
		return eris.Wrap(err, "failed to set up telemetry")
	}
	log := tel.GetLogger("main")

	cfg, err := ecs.LoadWorldConfig()
	if err != nil {
		return err
	}
	storage, err := snapshot.NewStorage(ctx)
	if err != nil {
		return err
	}
	if closer, ok := storage.(io.Closer); ok {
		defer closer.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return eris.Wrap(err, "failed to create screen")
	}
	if err = screen.Init(); err != nil {
		return eris.Wrap(err, "failed to init screen")
	}
	defer screen.Fini()

	worldOpts := append(cfg.Options(), ecs.WithLogger(tel.GetLogger("world")))
	w := ecs.NewWorld(worldOpts...)
	prng := rand.New(rand.NewPCG(opts.seed, opts.seed)) //nolint:gosec // not for security

	ager := &aging{world: w}
	freeze := &freezer{}
	logic := w.CreateGroup("logic", logicMask)
	logic.Add(&spawner{screen: screen, target: opts.particles, prng: prng})
	logic.Add(ecs.NewEntitySystem("freezer", freeze, ecs.All[*Frozen]()))
	logic.Add(ecs.NewEntitySystem("movement", &movement{screen: screen},
		ecs.All[*Position](), ecs.All[*Velocity](), ecs.Exclude[*Frozen]()))
	logic.Add(ecs.NewEntitySystem("aging", ager, ecs.All[*Lifetime]()))

	cells := ecs.CreateDataCache(w, "cells", w.Aspect(ecs.All[*Position](), ecs.All[*Glyph]()),
		func(e *ecs.Entity) termview.Cell {
			return termview.Cell{Rune: ecs.Get[*Glyph](e).Rune, Style: ecs.Get[*Glyph](e).style()}
		})
	renderer := termview.NewRenderer(screen, cells, func(e *ecs.Entity, cell *termview.Cell) {
		pos := ecs.Get[*Position](e)
		cell.X, cell.Y = int(pos.X), int(pos.Y)
	})
	w.CreateGroup("render", renderMask).Add(renderer)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frame := time.Second / time.Duration(max(opts.fps, 1))
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	start := time.Now()
	last := start
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
					logStats(log, w, ager)
					return nil
				case ev.Rune() == ' ':
					freeze.toggle = true
				case ev.Rune() == 's':
					storeSnapshot(ctx, log, storage, w, tick)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			tick++
			w.Update(now.Sub(start), now.Sub(last), logicMask)
			last = now

			stats := w.Stats()
			renderer.Text(0, 0, fmt.Sprintf("particles %d  expired %d  reconciles %d  frozen %t",
				cells.Len(), ager.expired, stats.Reconciles, freeze.frozen), tcell.StyleDefault.Reverse(true))
			w.Update(now.Sub(start), 0, renderMask)
		}
	}
}

func printSchemas(out io.Writer) error {
	reg := ecs.NewRegistry()
	for _, register := range []func(*ecs.Registry) (ecs.ComponentID, error){
		ecs.Register[*Position], ecs.Register[*Velocity], ecs.Register[*Glyph],
		ecs.Register[*Lifetime], ecs.Register[*Frozen],
	} {
		if _, err := register(reg); err != nil {
			return err
		}
	}

	schemas, err := snapshot.Schemas(reg)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to marshal schemas")
	}
	_, err = fmt.Fprintln(out, string(data))
	return eris.Wrap(err, "failed to write schemas")
}

func storeSnapshot(ctx context.Context, log zerolog.Logger, storage snapshot.Storage, w *ecs.World, tick uint64) {
	snap, err := snapshot.Take(w, tick, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to take snapshot")
		return
	}
	if err = storage.Store(ctx, snap); err != nil {
		log.Error().Err(err).Msg("failed to store snapshot")
		return
	}
	log.Info().Uint64("tick", tick).Int("bytes", len(snap.Data)).Msg("snapshot stored")
}

func logStats(log zerolog.Logger, w *ecs.World, ager *aging) {
	stats := w.Stats()
	log.Info().
		Uint64("updates", stats.Updates).
		Uint64("reconciles", stats.Reconciles).
		Uint64("erased", stats.EntitiesErased).
		Int("expired", ager.expired).
		Int("entities", w.EntityCount()).
		Msg("demo finished")
}
