package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = ".mrecognizer.yaml"

// Config holds the settings a config file may provide. Flags override it.
type Config struct {
	Format           string `yaml:"format"`
	Out              string `yaml:"out"`
	Pattern          string `yaml:"pattern"`
	Color            string `yaml:"color"`
	Parallelism      int    `yaml:"parallelism"`
	StopOnFirstError bool   `yaml:"stop_on_first_error"`
}

// Defaults returns the settings used when no file is found.
func Defaults() *Config {
	return &Config{
		Format:           "tree",
		Out:              "-",
		Color:            "auto",
		Parallelism:      1,
		StopOnFirstError: true,
	}
}

const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "format": {"enum": ["tree", "yaml", "json", "cbor"]},
    "out": {"type": "string", "minLength": 1},
    "pattern": {"type": "string"},
    "color": {"enum": ["auto", "always", "never"]},
    "parallelism": {"type": "integer", "minimum": 1},
    "stop_on_first_error": {"type": "boolean"}
  }
}`

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	url := "schema://mrecognizer.json"
	if err := compiler.AddResource(url, strings.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
})

// LoadConfig reads path, or DefaultConfigFile when path is empty. A missing
// default file yields Defaults; a missing explicit file is an error. The
// returned string is the file actually read, empty if none.
func LoadConfig(path string) (*Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Defaults(), "", nil
		}
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// ParseConfig validates data against the config schema and decodes it over
// Defaults.
func ParseConfig(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// Round-trip through JSON so the validator sees JSON value types.
	encoded, err := jsoniter.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber() // the validator reads numbers as json.Number
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
