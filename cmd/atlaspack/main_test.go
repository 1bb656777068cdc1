package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSprite(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_FlagsAfterDir(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeSprite(t, src, "ab.png", 10, 10)
	writeSprite(t, src, "b.png", 8, 8)

	var stderr bytes.Buffer
	code := run(context.Background(), []string{src, "--out", out}, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	for _, name := range []string{"out.png", "out.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if !strings.Contains(stderr.String(), "done.") {
		t.Errorf("stderr missing progress output:\n%s", stderr.String())
	}
}

func TestRun_ConfigThenFlags(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeSprite(t, src, "a.png", 4, 4)
	cfgPath := filepath.Join(t.TempDir(), "atlaspack.toml")
	cfg := "source = \"" + filepath.ToSlash(src) + "\"\nout = \"" + filepath.ToSlash(out) + "\"\natlas_name = \"file.png\"\nindex_name = \"file.json\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfgPath, "--index", "flag.json", "--quiet"}, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	for _, name := range []string{"file.png", "flag.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet run printed:\n%s", stderr.String())
	}
}

func TestRun_Failure(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "broken.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	if code := run(context.Background(), []string{"--out", out, src}, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "broken.png") {
		t.Errorf("stderr does not name the sprite:\n%s", stderr.String())
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Errorf("outputs written after failure: %d entries", len(entries))
	}
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer
	if code := run(context.Background(), []string{"a", "b"}, &stderr); code != 2 {
		t.Errorf("two directories: exit %d, want 2", code)
	}
	if code := run(context.Background(), []string{"--nope"}, &stderr); code != 2 {
		t.Errorf("unknown flag: exit %d, want 2", code)
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		out  string
	}{
		{"flags after dir", []string{"dir", "-out", "x"}, []string{"dir"}, "x"},
		{"terminator", []string{"--", "dir", "-out", "x"}, []string{"dir", "-out", "x"}, "."},
		{"terminator after dir", []string{"dir", "--", "-out"}, []string{"dir", "-out"}, "."},
		{"flag then terminator", []string{"-out", "y", "--", "-dir"}, []string{"-dir"}, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			out := fs.String("out", ".", "")
			got, err := parseInterspersed(fs, tt.args)
			if err != nil {
				t.Fatalf("parseInterspersed: %v", err)
			}
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("positional = %q, want %q", got, tt.want)
			}
			if *out != tt.out {
				t.Errorf("out = %q, want %q", *out, tt.out)
			}
		})
	}
}

func TestRun_PackingFlags(t *testing.T) {
	src := t.TempDir()
	writeSprite(t, src, "a.png", 60, 60)
	writeSprite(t, src, "b.png", 60, 60)

	tests := []struct {
		name  string
		flags []string
		want  string
	}{
		{"defaults", nil, `{"a":[0,0,60,60],"b":[0,60,60,60]}`},
		{"flat sheet", []string{"--fill-ratio", "1", "--aspect", "0.5"}, `{"a":[0,0,60,60],"b":[85,0,60,60]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			args := append([]string{"--quiet", "--out", out}, tt.flags...)
			args = append(args, src)
			var stderr bytes.Buffer
			if code := run(context.Background(), args, &stderr); code != 0 {
				t.Fatalf("exit %d: %s", code, stderr.String())
			}
			data, err := os.ReadFile(filepath.Join(out, "out.json"))
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("out.json = %s, want %s", data, tt.want)
			}
		})
	}

	var stderr bytes.Buffer
	if code := run(context.Background(), []string{"--fill-ratio", "2", src}, &stderr); code != 1 {
		t.Errorf("fill ratio 2: exit %d, want 1", code)
	}
}
