package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

// LoadPolicy returns the scoring policy. An empty path yields the default
// policy; otherwise the YAML file at path overrides the fields it sets and
// the result is validated.
func LoadPolicy(path string) (skills.Policy, error) {
	p := skills.DefaultPolicy()
	if path == "" {
		return p, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return skills.Policy{}, fmt.Errorf("op=config.LoadPolicy: %w", err)
	}
	// #nosec G304 -- operator supplied configuration file
	content, err := os.ReadFile(absPath)
	if err != nil {
		return skills.Policy{}, fmt.Errorf("op=config.LoadPolicy: %w", err)
	}
	if err := decodePolicy(content, &p); err != nil {
		return skills.Policy{}, fmt.Errorf("op=config.LoadPolicy: %s: %w", absPath, err)
	}
	if err := p.Validate(); err != nil {
		return skills.Policy{}, fmt.Errorf("op=config.LoadPolicy: %w", err)
	}
	return p, nil
}

func decodePolicy(content []byte, p *skills.Policy) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
