package atlaspack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is one sprite file read from storage.
type Source struct {
	Name string // file name inside the source directory
	Data []byte // encoded image bytes
}

// ReadSources reads every regular, non-hidden file in dir, in name order.
// Subdirectories are skipped.
func ReadSources(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("atlaspack: read sprites: %w", err)
	}
	var sources []Source
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("atlaspack: read sprite: %w", err)
		}
		sources = append(sources, Source{Name: e.Name(), Data: data})
	}
	return sources, nil
}

// Output is one named artifact to persist.
type Output struct {
	Name string
	Data []byte
}

// rename is os.Rename; tests swap it to fail part way through a commit.
var rename = os.Rename

// WriteOutputs persists outputs into dir as a set. Every output is first
// written to a temporary file next to its target. Targets that already exist
// are moved aside, then the temporaries are renamed into place. If any step
// fails, placed outputs are removed and the moved targets restored, so dir
// holds either every new output or its previous contents.
func WriteOutputs(dir string, outputs ...Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atlaspack: mkdir %s: %w", dir, err)
	}

	temps := make([]string, 0, len(outputs))
	removeTemps := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}
	for _, out := range outputs {
		tmp, err := writeTemp(dir, out)
		if err != nil {
			removeTemps()
			return err
		}
		temps = append(temps, tmp)
	}

	targets := make([]string, len(outputs))
	for i, out := range outputs {
		targets[i] = filepath.Join(dir, out.Name)
		if err := checkTarget(targets[i]); err != nil {
			removeTemps()
			return err
		}
	}

	// backups[i] holds the previous content of targets[i], if it had any.
	backups := make([]string, len(outputs))
	placed := 0
	rollback := func() {
		for i := 0; i < placed; i++ {
			_ = os.Remove(targets[i])
		}
		for i, b := range backups {
			if b != "" {
				_ = rename(b, targets[i])
			}
		}
		removeTemps()
	}

	for i, target := range targets {
		b, err := moveAside(dir, outputs[i].Name, target)
		if err != nil {
			rollback()
			return err
		}
		backups[i] = b
	}
	for i, target := range targets {
		if err := rename(temps[i], target); err != nil {
			rollback()
			return fmt.Errorf("atlaspack: rename %s: %w", target, err)
		}
		placed++
	}

	for _, b := range backups {
		if b != "" {
			_ = os.Remove(b)
		}
	}
	return nil
}

// checkTarget fails if path exists and is not a regular file.
func checkTarget(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("atlaspack: stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("atlaspack: %s exists and is not a regular file", path)
	}
	return nil
}

// moveAside renames an existing target to a backup name in dir and returns
// that name, or "" when there was nothing to move.
func moveAside(dir, name, target string) (string, error) {
	if _, err := os.Lstat(target); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	f, err := os.CreateTemp(dir, "."+name+".*.bak")
	if err != nil {
		return "", fmt.Errorf("atlaspack: back up %s: %w", target, err)
	}
	backup := f.Name()
	f.Close()
	if err := rename(target, backup); err != nil {
		_ = os.Remove(backup)
		return "", fmt.Errorf("atlaspack: back up %s: %w", target, err)
	}
	return backup, nil
}

func writeTemp(dir string, out Output) (string, error) {
	f, err := os.CreateTemp(dir, "."+out.Name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("atlaspack: create %s: %w", out.Name, err)
	}
	if _, err := f.Write(out.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("atlaspack: write %s: %w", out.Name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("atlaspack: close %s: %w", out.Name, err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("atlaspack: chmod %s: %w", out.Name, err)
	}
	return f.Name(), nil
}
