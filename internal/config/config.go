package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (RAGSERVER_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: RAGSERVER_MODEL -> model, etc.
	if err := k.Load(env.Provider("RAGSERVER_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "RAGSERVER_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// The provider API key may also come from the conventional variables.
	if cfg.APIKey == "" {
		for _, name := range []string{"MISTRAL_API_KEY", "OPENAI_API_KEY"} {
			if v := os.Getenv(name); v != "" {
				cfg.APIKey = v
				break
			}
		}
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.CollectionName == "" {
		return fmt.Errorf("collection_name is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}
	if c.PersistDir == "" {
		return fmt.Errorf("persist_dir is required")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if c.RetrievalTopK < 1 || c.RetrievalTopK > 20 {
		return fmt.Errorf("retrieval_top_k must be in 1..20, got %d", c.RetrievalTopK)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive")
	}
	return nil
}
