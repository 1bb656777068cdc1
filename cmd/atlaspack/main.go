// Command atlaspack packs the sprite images of a directory into one atlas
// image and a JSON name index.
//
// Usage:
//
//	atlaspack [flags] [dir]
//
// dir defaults to the current directory. Flags may appear before or after
// dir; arguments after "--" are never read as flags. Every packing setting
// of the TOML file also has a flag, including --fill-ratio and --aspect.
// Settings are resolved from built-in defaults, then the --config TOML file,
// then flags given on the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/phanxgames/atlaspack"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)

	fs := flag.NewFlagSet("atlaspack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		out           = fs.String("out", ".", "output directory for the atlas and index")
		configPath    = fs.String("config", "", "TOML file with default settings")
		atlasName     = fs.String("atlas", "out.png", "atlas image file name")
		indexName     = fs.String("index", "out.json", "index file name")
		texturePacker = fs.String("texturepacker", "", "also write TexturePacker hash JSON under this name")
		padding       = fs.Int("padding", 0, "empty pixels right of and below each sprite")
		fillRatio     = fs.Float64("fill-ratio", atlaspack.DefaultFillRatio, "expected sprite coverage, sizes the starting sheet width (0, 1]")
		aspect        = fs.Float64("aspect", atlaspack.DefaultAspect, "target height/width ratio while the sheet grows")
		workers       = fs.Int("workers", 0, "decode/composite workers (0 = GOMAXPROCS)")
		background    = fs.String("background", "", "colour of uncovered pixels, #rrggbb or #rrggbbaa")
		compression   = fs.String("compression", "default", "png compression: default, speed, best, none")
		quiet         = fs.Bool("quiet", false, "only print errors")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: atlaspack [flags] [dir]\n")
		fs.PrintDefaults()
	}

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return 2
	}
	if len(positional) > 1 {
		logger.Printf("atlaspack: expected at most one directory, got %d", len(positional))
		fs.Usage()
		return 2
	}

	cfg := atlaspack.DefaultConfig()
	if *configPath != "" {
		if cfg, err = atlaspack.LoadConfig(*configPath, cfg); err != nil {
			logger.Print(err)
			return 1
		}
	}
	if len(positional) == 1 {
		cfg.SourceDir = positional[0]
	}

	// Only flags given explicitly override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutDir = *out
		case "atlas":
			cfg.AtlasName = *atlasName
		case "index":
			cfg.IndexName = *indexName
		case "texturepacker":
			cfg.TexturePackerName = *texturePacker
		case "padding":
			cfg.Padding = *padding
		case "fill-ratio":
			cfg.FillRatio = *fillRatio
		case "aspect":
			cfg.Aspect = *aspect
		case "workers":
			cfg.Workers = *workers
		case "background":
			cfg.Background = *background
		case "compression":
			cfg.Compression = *compression
		}
	})
	if !*quiet {
		cfg.Logf = logger.Printf
	}

	if _, err := atlaspack.Run(ctx, cfg); err != nil {
		logger.Print(err)
		return 1
	}
	return 0
}

// parseInterspersed parses flags that may follow positional arguments and
// returns the positional arguments in order. Everything after "--" is
// positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
