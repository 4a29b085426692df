package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource reads a flat list of records from a JSON or YAML file. The
// format is picked by extension; anything that is not .yaml/.yml is JSON.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
	}

	var records []Record
	if isYAML(f.Path) {
		err = yaml.Unmarshal(raw, &records)
	} else {
		err = json.Unmarshal(raw, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrDataLoad, f.Path, err)
	}

	return records, nil
}

// WriteFile stores records in the same formats FileSource reads.
func WriteFile(path string, records []Record) error {
	var (
		raw []byte
		err error
	)
	if isYAML(path) {
		raw, err = yaml.Marshal(records)
	} else {
		raw, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
