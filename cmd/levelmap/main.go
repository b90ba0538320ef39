// Level overview tool - renders a level and its grid occupancy to PNG.
//
// Usage: go run ./cmd/levelmap -out level.png [-level file.msgpack] [-save file.msgpack]
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/geom"
	"github.com/pthm-cable/scroller/level"
	"github.com/pthm-cable/scroller/minimap"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Level file to render (empty = generate)")
	savePath := flag.String("save", "", "Also write the level as msgpack to this path")
	outPath := flag.String("out", "level.png", "Output PNG path")
	width := flag.Int("width", minimap.DefaultOptions().Width, "Image width in pixels")
	height := flag.Int("height", minimap.DefaultOptions().Height, "Image height in pixels")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(config.ResolvePath(*configPath), *levelPath, *savePath, *outPath, *width, *height); err != nil {
		slog.Error("levelmap failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, levelPath, savePath, outPath string, width, height int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var l *level.Layout
	if levelPath != "" {
		if l, err = level.LoadFile(levelPath); err != nil {
			return err
		}
	} else {
		l = level.Generate(cfg.Level, geom.Pt{X: cfg.Derived.StartX, Y: cfg.Player.StartY})
	}

	if savePath != "" {
		if err := l.SaveFile(savePath); err != nil {
			return err
		}
		slog.Info("level saved", "path", savePath)
	}

	opts := minimap.DefaultOptions()
	opts.Width, opts.Height = width, height
	opts.EnemyHalf = cfg.Enemy.HalfSize
	opts.PickupHalf = cfg.Collectible.HalfSize

	grid, err := minimap.Index(l, cfg.World.Size, cfg.World.CellSize, opts.EnemyHalf, opts.PickupHalf)
	if err != nil {
		return err
	}
	if err := minimap.SavePNG(outPath, minimap.Render(l, grid, opts)); err != nil {
		return err
	}

	slog.Info("level map written",
		"path", outPath,
		"name", l.Name,
		"platforms", len(l.Platforms),
		"enemies", len(l.Enemies),
		"blocks", len(l.Blocks),
		"collectibles", len(l.Collectibles),
		"grid", grid.Stats(),
	)
	return nil
}
