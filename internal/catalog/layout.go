package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Data directory stages
const (
	StageRaw       = "raw"
	StageProcessed = "processed"
	StageModels    = "models"
	StageTemp      = "tmp"
	StageLogs      = "logs"
)

var stages = []string{StageRaw, StageProcessed, StageModels, StageTemp, StageLogs}

func validStage(stage string) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Layout is the on-disk data directory: one subdirectory per stage, each
// holding one subdirectory per dataset.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at dir
func NewLayout(dir string) Layout {
	return Layout{Root: dir}
}

// Init creates the root and every stage directory
func (l Layout) Init() error {
	for _, s := range stages {
		if err := os.MkdirAll(filepath.Join(l.Root, s), 0755); err != nil {
			return fmt.Errorf("creating %s directory: %w", s, err)
		}
	}
	return nil
}

// DataPath returns the path of a dataset file at a stage, creating the
// dataset directory if needed.
func (l Layout) DataPath(dataset, stage, filename string) (string, error) {
	if !validStage(stage) {
		return "", fmt.Errorf("unknown stage %q", stage)
	}
	if dataset == "" || filepath.Base(dataset) != dataset {
		return "", fmt.Errorf("invalid dataset name %q", dataset)
	}

	dir := filepath.Join(l.Root, stage, dataset)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating dataset directory: %w", err)
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

// LogPath returns the path of the application log file
func (l Layout) LogPath() string {
	return filepath.Join(l.Root, StageLogs, "fastclime.log")
}

// Rel returns path relative to the layout root
func (l Layout) Rel(path string) (string, error) {
	return filepath.Rel(l.Root, path)
}

// CleanTemp removes everything under the temp stage and returns the number
// of entries removed.
func (l Layout) CleanTemp() (int, error) {
	dir := filepath.Join(l.Root, StageTemp)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return 0, fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	return len(entries), nil
}

// FileSHA256 returns the hex SHA-256 digest and size of a file
func FileSHA256(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// CopyFile copies src to dst, replacing dst
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
