package atlaspack

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Result is the in-memory outcome of a packing run.
type Result struct {
	Atlas Atlas
	// Boxes are in source order, named by their trimmed names.
	Boxes []SpriteBox
	Index *Trie
	Image *image.NRGBA
	Stats Stats
}

// Build measures, packs, indexes and composites sources. It touches no
// storage; any error aborts the whole batch.
func Build(ctx context.Context, sources []Source, cfg Config) (*Result, error) {
	if err := cfg.validateBuild(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, ErrNoSprites
	}
	background, _ := ParseBackground(cfg.Background)
	logf := cfg.logf
	progress := cfg.Progress
	if progress == nil {
		progress = Milestones(10, cfg.Logf)
	}

	codec := cfg.codec()

	logf("reading %d sprites...", len(sources))
	boxes := make([]SpriteBox, len(sources))
	for i, src := range sources {
		w, h, err := codec.Measure(src.Data)
		if err != nil {
			return nil, spriteErr(src.Name, err)
		}
		boxes[i] = SpriteBox{Name: TrimName(src.Name), Width: w, Height: h}
		if progress != nil {
			progress(StageMeasure, i+1, len(sources))
		}
	}

	logf("packing sprites...")
	atlas, err := Pack(boxes, cfg.packOptions(progress))
	if err != nil {
		return nil, err
	}

	index, err := BuildTrie(boxes)
	if err != nil {
		return nil, err
	}

	logf("drawing sprites...")
	sprites, err := decodeAll(ctx, codec, sources, boxes, cfg.Workers, progress)
	if err != nil {
		return nil, err
	}
	img, err := Composite(ctx, atlas, sprites, CompositeOptions{
		Background: background,
		Workers:    cfg.Workers,
		Progress:   progress,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Atlas: atlas,
		Boxes: boxes,
		Index: index,
		Image: img,
		Stats: ComputeStats(atlas, boxes),
	}, nil
}

// decodeAll decodes every source on a bounded pool of workers. ctx is
// checked before each sprite.
func decodeAll(ctx context.Context, codec Codec, sources []Source, boxes []SpriteBox, workers int, progress ProgressFunc) ([]Sprite, error) {
	sprites := make([]Sprite, len(sources))
	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(workers))
	for i := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			px, err := codec.Decode(sources[i].Data)
			if err != nil {
				return spriteErr(sources[i].Name, err)
			}
			sprites[i] = Sprite{Box: boxes[i], Pixels: px}
			if progress != nil {
				progress(StageDecode, int(done.Add(1)), len(sources))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sprites, nil
}

// Run reads the sprites in cfg.SourceDir, builds the atlas and writes the
// atlas image and index into cfg.OutDir. Either every output is written or
// none is.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sources, err := ReadSources(cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("atlaspack: %s: %w", cfg.SourceDir, ErrNoSprites)
	}

	res, err := Build(ctx, sources, cfg)
	if err != nil {
		return nil, err
	}

	outputs, err := cfg.encodeOutputs(res)
	if err != nil {
		return nil, err
	}

	cfg.logf("writing %s and %s...", cfg.AtlasName, cfg.IndexName)
	if err := WriteOutputs(cfg.OutDir, outputs...); err != nil {
		return nil, err
	}
	cfg.logf("%v", res.Stats)
	cfg.logf("done.")
	return res, nil
}

func (c Config) encodeOutputs(res *Result) ([]Output, error) {
	level, err := ParseCompression(c.Compression)
	if err != nil {
		return nil, err
	}
	var png bytes.Buffer
	if err := EncodePNG(&png, res.Image, level); err != nil {
		return nil, err
	}
	index, err := res.Index.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("atlaspack: encode index: %w", err)
	}
	outputs := []Output{
		{Name: c.AtlasName, Data: png.Bytes()},
		{Name: c.IndexName, Data: index},
	}
	if c.TexturePackerName != "" {
		tp, err := MarshalTexturePacker(res.Atlas, res.Boxes, c.AtlasName)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Name: c.TexturePackerName, Data: tp})
	}
	return outputs, nil
}

func (c Config) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}
