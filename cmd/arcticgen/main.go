package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OCharnyshevich/arcticgen/internal/config"
	"github.com/OCharnyshevich/arcticgen/internal/storage"
	"github.com/OCharnyshevich/arcticgen/internal/world"
	"github.com/OCharnyshevich/arcticgen/pkg/world/anvil"
	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

// Flat-site search grid, in blocks.
const (
	siteStep  = 64
	siteRings = 4
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "YAML config file")
	exportDir := flag.String("export", "", "write the region as Anvil .mca files into this directory")
	flatRadius := flag.Int("flat-site", 0, "look for a flat site of this radius near the centre before generating (0 = off)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, "generator type: arctic or flat")
	flag.IntVar(&cfg.CenterX, "center-x", cfg.CenterX, "pre-generation centre chunk x")
	flag.IntVar(&cfg.CenterZ, "center-z", cfg.CenterZ, "pre-generation centre chunk z")
	flag.IntVar(&cfg.Radius, "radius", cfg.Radius, "pre-generation radius in chunks")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "generation workers")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *flatRadius, *exportDir, log); err != nil {
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, flatRadius int, exportDir string, log *slog.Logger) error {
	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close storage", "error", err)
		}
	}()
	meta, err := store.Bind(cfg.Seed, cfg.GeneratorType)
	if err != nil {
		return err
	}

	reserves := gen.NewReserves()
	if err := store.LoadReserves(reserves); err != nil {
		return err
	}
	for _, r := range cfg.FlatAreas {
		reserves.ReserveFlatArea(r.CenterX, r.CenterZ, r.HeightY, r.Radius)
	}

	generator, err := newGenerator(cfg, reserves)
	if err != nil {
		return err
	}
	if ag, ok := generator.(*gen.ArcticGenerator); ok && flatRadius > 0 {
		findSite(ag, cfg.CenterX*16+8, cfg.CenterZ*16+8, flatRadius, log)
	}

	w := world.NewWorld(generator, log, store)
	start := time.Now()
	n, err := w.PreGenerateRadius(ctx, cfg.CenterX, cfg.CenterZ, cfg.Radius, cfg.Workers)
	if err != nil {
		return err
	}
	stored, err := store.ChunkCount()
	if err != nil {
		return err
	}
	log.Info("region ready",
		"world", meta.WorldID,
		"seed", cfg.Seed,
		"generator", cfg.GeneratorType,
		"chunks", n,
		"stored", stored,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"digest", fmt.Sprintf("%016x", w.RegionDigest(cfg.CenterX, cfg.CenterZ, cfg.Radius)),
		"spawn_y", w.SpawnHeight(),
	)

	if exportDir != "" {
		regions, err := anvil.Export(exportDir, w.Region(cfg.CenterX, cfg.CenterZ, cfg.Radius))
		if err != nil {
			return fmt.Errorf("export region: %w", err)
		}
		log.Info("exported anvil regions", "dir", exportDir, "files", regions)
	}

	if err := store.SaveReserves(reserves); err != nil {
		return fmt.Errorf("save reserves: %w", err)
	}
	return nil
}

func newGenerator(cfg *config.Config, reserves *gen.Reserves) (gen.Generator, error) {
	switch cfg.GeneratorType {
	case config.GeneratorFlat:
		return gen.NewFlatGenerator(cfg.Seed), nil
	default:
		ores, err := cfg.OreSpecs()
		if err != nil {
			return nil, err
		}
		return gen.New(cfg.Seed, cfg.Terrain, reserves, ores), nil
	}
}

// findSite walks square rings around (x, z) until a flat site fits.
func findSite(g *gen.ArcticGenerator, x, z, radius int, log *slog.Logger) {
	for ring := 0; ring <= siteRings; ring++ {
		for dz := -ring; dz <= ring; dz++ {
			for dx := -ring; dx <= ring; dx++ {
				if max(abs(dx), abs(dz)) != ring {
					continue
				}
				if site, ok := g.FindFlatSite(x+dx*siteStep, z+dz*siteStep, radius); ok {
					log.Info("flat site placed", "x", site.CenterX, "z", site.CenterZ, "y", site.HeightY, "radius", site.Radius)
					return
				}
			}
		}
	}
	log.Warn("no flat site found", "x", x, "z", z, "radius", radius)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
