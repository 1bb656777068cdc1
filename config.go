package atlaspack

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
)

// Config describes one packing run. Zero-valued fields in a file or on the
// command line keep the values from DefaultConfig.
type Config struct {
	// SourceDir holds the sprite files.
	SourceDir string `toml:"source"`
	// OutDir receives the atlas image and the index.
	OutDir string `toml:"out"`
	// AtlasName and IndexName are the output file names inside OutDir.
	AtlasName string `toml:"atlas_name"`
	IndexName string `toml:"index_name"`
	// TexturePackerName, when set, also writes a TexturePacker hash-format
	// description of the atlas under this name.
	TexturePackerName string `toml:"texturepacker_name"`

	Padding   int     `toml:"padding"`
	FillRatio float64 `toml:"fill_ratio"`
	Aspect    float64 `toml:"aspect"`
	Workers   int     `toml:"workers"`

	// Background is the colour of atlas pixels no sprite covers, as
	// "#rrggbb" or "#rrggbbaa". Empty means fully transparent.
	Background string `toml:"background"`
	// Compression is one of "default", "speed", "best" or "none".
	Compression string `toml:"compression"`

	// Codec measures and decodes sprites. Nil uses ImageCodec.
	Codec Codec `toml:"-"`
	// Logf receives progress and summary lines. Nil silences the run.
	Logf func(format string, args ...any) `toml:"-"`
	// Progress, if set, replaces the default 10% milestone logging.
	Progress ProgressFunc `toml:"-"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		SourceDir:   ".",
		OutDir:      ".",
		AtlasName:   "out.png",
		IndexName:   "out.json",
		FillRatio:   DefaultFillRatio,
		Aspect:      DefaultAspect,
		Compression: "default",
	}
}

// LoadConfig reads a TOML file on top of base. Keys missing from the file
// keep their value from base; unknown keys are an error.
func LoadConfig(path string, base Config) (Config, error) {
	cfg := base
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return base, fmt.Errorf("atlaspack: load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return base, fmt.Errorf("atlaspack: load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	names := map[string]bool{}
	for _, n := range []string{c.AtlasName, c.IndexName, c.TexturePackerName} {
		if n == "" {
			continue
		}
		if strings.ContainsAny(n, `/\`) {
			return fmt.Errorf("atlaspack: output name %q must not contain a path separator", n)
		}
		if names[n] {
			return fmt.Errorf("atlaspack: output name %q used twice", n)
		}
		names[n] = true
	}
	if c.AtlasName == "" || c.IndexName == "" {
		return errors.New("atlaspack: atlas and index names are required")
	}
	if _, err := ParseCompression(c.Compression); err != nil {
		return err
	}
	return c.validateBuild()
}

// validateBuild checks the settings that affect packing and compositing.
func (c Config) validateBuild() error {
	if c.Padding < 0 {
		return fmt.Errorf("atlaspack: negative padding %d", c.Padding)
	}
	if c.Workers < 0 {
		return fmt.Errorf("atlaspack: negative worker count %d", c.Workers)
	}
	// Zero keeps the packer default.
	if c.FillRatio < 0 || c.FillRatio > 1 {
		return fmt.Errorf("atlaspack: fill ratio %g outside (0, 1]", c.FillRatio)
	}
	if c.Aspect < 0 {
		return fmt.Errorf("atlaspack: negative aspect %g", c.Aspect)
	}
	if _, err := ParseBackground(c.Background); err != nil {
		return err
	}
	return nil
}

// ParseBackground parses "#rrggbb" or "#rrggbbaa". The empty string and
// "transparent" yield the zero colour.
func ParseBackground(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return color.NRGBA{}, nil
	}
	alpha := uint64(0xff)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("atlaspack: background %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("atlaspack: background %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}

// ParseCompression maps a compression name to a PNG compression level.
func ParseCompression(s string) (png.CompressionLevel, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed", "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	}
	return 0, fmt.Errorf("atlaspack: unknown compression %q", s)
}

func (c Config) codec() Codec {
	if c.Codec != nil {
		return c.Codec
	}
	return ImageCodec{}
}

func (c Config) packOptions(progress ProgressFunc) PackOptions {
	return PackOptions{
		FillRatio: c.FillRatio,
		Aspect:    c.Aspect,
		Padding:   c.Padding,
		Progress:  progress,
	}
}
