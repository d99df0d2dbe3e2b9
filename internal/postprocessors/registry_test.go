package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// registryMockProcessor is a simple mock for testing registry functionality.
type registryMockProcessor struct {
	name string
}

func (m *registryMockProcessor) Name() string { return m.name }
func (m *registryMockProcessor) Process(_ context.Context, doc domain.Document) (domain.Document, error) {
	return doc, nil
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()

	r.Register("test", func(cfg map[string]any) (driven.PostProcessor, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockProcessor{name: name}, nil
	})

	proc, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if proc.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", proc.Name())
	}
}

func TestRegistry_Build_Unknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("missing", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = r.BuildPipeline([]string{"missing"}, nil)
	if err == nil {
		t.Error("expected error for unknown processor in pipeline")
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	names := r.Names()
	if len(names) != 2 || names[0] != NameDropFields || names[1] != NameSanitise {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestBuildDropFields_Config(t *testing.T) {
	tests := []struct {
		name    string
		cfg     map[string]any
		want    []string
		wantErr bool
	}{
		{name: "nil config", cfg: nil, want: nil},
		{name: "string slice", cfg: map[string]any{ConfigFields: []string{"a"}}, want: []string{"a"}},
		{name: "any slice", cfg: map[string]any{ConfigFields: []any{"a", "b"}}, want: []string{"a", "b"}},
		{name: "mixed slice", cfg: map[string]any{ConfigFields: []any{"a", 1}}, wantErr: true},
		{name: "not a list", cfg: map[string]any{ConfigFields: "a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := buildDropFields(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := proc.(*FieldDropper).Fields()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
