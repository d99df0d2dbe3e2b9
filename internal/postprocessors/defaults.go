package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Built-in processor names.
const (
	NameSanitise   = "sanitise"
	NameDropFields = "drop_fields"
)

// ConfigFields is the config key listing the fields drop_fields removes.
const ConfigFields = "fields"

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(NameSanitise, buildSanitiser)
	r.Register(NameDropFields, buildDropFields)
}

func buildSanitiser(_ map[string]any) (driven.PostProcessor, error) {
	return NewSanitiser(), nil
}

// buildDropFields creates a field-drop processor from generic config.
// Supported config keys:
//   - fields ([]string): top-level document fields to remove
func buildDropFields(cfg map[string]any) (driven.PostProcessor, error) {
	fields, err := getStringsFromConfig(cfg, ConfigFields)
	if err != nil {
		return nil, err
	}
	return NewFieldDropper(fields...), nil
}

// getStringsFromConfig safely extracts a string list from generic config.
// Handles []string and []any, as they may come from TOML/JSON parsing.
func getStringsFromConfig(cfg map[string]any, key string) ([]string, error) {
	val, ok := cfg[key]
	if !ok || val == nil {
		return nil, nil
	}

	switch v := val.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must list strings", domain.ErrInvalidInput, key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list", domain.ErrInvalidInput, key)
	}
}
