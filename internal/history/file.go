package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/revolver/internal/fileutil"
)

// SaveFile writes g to dir/<id>.toml and returns the path. Readers never see
// a partially written file.
func SaveFile(dir string, g *Game) (string, error) {
	if g.ID == "" {
		return "", fmt.Errorf("history: game has no ID")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		return "", err
	}

	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, g.ID+".toml")
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadFile reads a game saved by SaveFile.
func LoadFile(path string) (*Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
