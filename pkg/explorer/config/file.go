package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/garunski/api-explorer/pkg/explorer"
	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

// LoadFile reads a YAML configuration file over the defaults. Keys the
// file omits keep their default or environment value.
func LoadFile(path string) (explorer.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return explorer.Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults and validates it.
func Parse(data []byte) (explorer.Config, error) {
	cfg := explorer.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return explorer.Config{}, fmt.Errorf("%w: invalid config: %w", apperrors.ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return explorer.Config{}, fmt.Errorf("%w: %w", apperrors.ErrInvalid, err)
	}
	return cfg, nil
}
