package defaults

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a defaults file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned when a file encoding cannot be detected.
var ErrUnsupportedFormat = errors.New("defaults: unsupported format")

// ErrEmptyFile is returned by a Watcher reload that finds the file empty,
// which is what a truncate-then-write save looks like mid-way.
var ErrEmptyFile = errors.New("defaults: file is empty")

// LoadFile reads a defaults file. The format is taken from the extension and,
// failing that, sniffed from the content.
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("defaults: read %q: %w", path, err)
	}
	format := DetectFormat(path, data)
	values, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("defaults: load %q: %w", path, err)
	}
	return values, nil
}

// DetectFormat infers the encoding of a defaults file.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return FormatJSON
	case trimmed[0] == '{':
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("---")):
		return FormatYAML
	}
	for _, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if line[0] == '[' || bytes.Contains(line, []byte(" = ")) {
			return FormatTOML
		}
		if bytes.Contains(line, []byte(": ")) || bytes.HasSuffix(line, []byte(":")) {
			return FormatYAML
		}
	}
	return ""
}

// Parse decodes data in the given format into a defaults snapshot.
func Parse(data []byte, format Format) (Static, error) {
	raw := map[string]any{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return Static(normalizeMap(raw)), nil
}

// normalizeMap gives every decoder the same shape: nested maps become
// map[string]any, integers become int and lists become []any.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if value == nil {
			continue
		}
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, nested := range typed {
			converted[fmt.Sprint(key)] = nested
		}
		return normalizeMap(converted)
	case []map[string]any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = normalizeMap(typed[i])
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = normalizeValue(typed[i])
		}
		return out
	case int64:
		return int(typed)
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return int(n)
		}
		f, _ := typed.Float64()
		return f
	default:
		return value
	}
}
