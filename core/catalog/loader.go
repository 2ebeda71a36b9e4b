package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aguerin/carnet/core/model"
)

// Load reads user-authored templates from a JSON or YAML file.
func Load(path string) ([]model.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Decode(f, ext)
}

// Decode reads templates from r in the given format ("json", "yaml", "yml").
// Every template is validated; the first invalid one aborts the load.
func Decode(r io.Reader, format string) ([]model.Template, error) {
	var ts []model.Template
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&ts); err != nil {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&ts); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}
	for i, t := range ts {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, t.Name, err)
		}
	}
	return ts, nil
}
