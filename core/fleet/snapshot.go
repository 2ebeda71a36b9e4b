package fleet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSnapshot reads a fleet snapshot from a JSON or YAML file. Snapshot
// files are used by the one-shot CLI and by the memory storage backend.
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeSnapshot(f, ext)
}

// DecodeSnapshot reads a snapshot from r in the given format.
func DecodeSnapshot(r io.Reader, format string) (Snapshot, error) {
	var s Snapshot
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&s); err != nil {
			return s, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&s); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("unsupported snapshot format: %s", format)
	}
	for i, v := range s.Vehicles {
		if err := v.Validate(); err != nil {
			return s, fmt.Errorf("vehicle %d (%s): %w", i, v.ID, err)
		}
	}
	for i, e := range s.History {
		if err := e.Validate(); err != nil {
			return s, fmt.Errorf("history entry %d: %w", i, err)
		}
	}
	for i, t := range s.Templates {
		if err := t.Validate(); err != nil {
			return s, fmt.Errorf("template %d (%s): %w", i, t.Name, err)
		}
	}
	return s, nil
}
