package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a supported textual encoding of a task file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// DetectFormat picks the encoding from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported task file extension %q (want .yaml, .yml, .toml or .json)", filepath.Ext(path))
	}
}

// TaskListDoc is the wire-level shape of a task file, before the
// condition and parameter unions are constructed. All three encodings
// decode into this shape through a single mapstructure pass.
type TaskListDoc struct {
	Tasks []TaskEntryDoc `json:"tasks" jsonschema:"required"`
}

// TaskEntryDoc is the wire-level shape of one task entry.
type TaskEntryDoc struct {
	Type     string         `json:"type" jsonschema:"required"`
	Strategy string         `json:"strategy,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
	Variants []VariantDoc   `json:"variants,omitempty"`
}

// VariantDoc is the wire-level shape of one variant.
type VariantDoc struct {
	Condition map[string]any `json:"condition,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// decodeRaw parses the raw bytes of the given format into a generic
// document map. Numbers and nested containers keep their natural decoded
// shapes; the build step normalizes them.
func decodeRaw(data []byte, format Format) (map[string]any, error) {
	raw := make(map[string]any)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return raw, nil
}

// decodeDoc maps a generic document into the wire structs, rejecting
// unknown fields so typos surface as configuration errors instead of
// being silently dropped.
func decodeDoc(raw map[string]any) (*TaskListDoc, error) {
	var doc TaskListDoc
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		TagName:     "json",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return &doc, nil
}

// Load parses a task list from a reader in the given format and builds
// the typed model. Configuration errors are joined into a single error;
// callers that need per-error locations should use Validate instead.
func Load(r io.Reader, format Format) (*TaskList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read task list: %w", err)
	}
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDoc(raw)
	if err != nil {
		return nil, err
	}
	list, errs := Build(doc)
	if HasErrors(errs) {
		var joined []error
		for _, e := range errs {
			if e.Severity != "warning" {
				joined = append(joined, e)
			}
		}
		return nil, errors.Join(joined...)
	}
	return list, nil
}

// LoadFile reads and parses a task file, picking the encoding from the
// file extension.
func LoadFile(path string) (*TaskList, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()
	return Load(f, format)
}
