package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-ensemble/internal/ports"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// EnsembleConfig defines the complete specification for an ensemble and
// serves as the primary configuration entry point for the system.
type EnsembleConfig struct {
	// Version specifies the configuration schema version.
	Version string `yaml:"version" validate:"required"`
	// Metadata contains descriptive information about the ensemble.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Combiner specifies the combination strategy to instantiate.
	Combiner CombinerConfig `yaml:"combiner" validate:"required"`
}

// Metadata provides descriptive information about an ensemble to support
// organization and operational management.
type Metadata struct {
	// Name is the human-readable identifier for this ensemble.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description provides a detailed explanation of the ensemble's purpose.
	Description string `yaml:"description" validate:"max=1000"`
}

// CombinerConfig defines the specification for the combination strategy,
// including its type and type-specific parameters.
type CombinerConfig struct {
	// ID is the unique identifier for this combiner instance.
	ID string `yaml:"id" validate:"required,min=1,max=100"`
	// Type specifies the combination strategy implementation to instantiate.
	Type string `yaml:"type" validate:"required,oneof=cv_weighted uniform custom"`
	// Parameters contains type-specific configuration as flexible YAML that
	// is validated according to the combiner type requirements.
	Parameters yaml.Node `yaml:"parameters"`
	// Options contains auxiliary evaluator options forwarded to the
	// cross-validation routine (first_origin, stride, forecast_horizon).
	Options map[string]any `yaml:"options"`
}

// LoadEnsembleConfig parses and validates an ensemble configuration from raw
// YAML bytes.
func LoadEnsembleConfig(data []byte) (*EnsembleConfig, error) {
	var config EnsembleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse ensemble config: %w", err)
	}
	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("ensemble config validation failed: %w", err)
	}
	return &config, nil
}

// BuildCombiner instantiates the configured combination strategy through the
// registry, decoding the flexible parameters block into the factory's
// configuration map and forwarding any auxiliary evaluator options.
func (c *EnsembleConfig) BuildCombiner(registry *CombinerRegistry) (ports.Combiner, error) {
	config := make(map[string]any)
	if !c.Combiner.Parameters.IsZero() {
		if err := c.Combiner.Parameters.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode combiner parameters: %w", err)
		}
	}
	if len(c.Combiner.Options) > 0 {
		config["options"] = c.Combiner.Options
	}
	return registry.Create(c.Combiner.Type, c.Combiner.ID, config)
}
