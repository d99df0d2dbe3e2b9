package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFault_String(t *testing.T) {
	tests := []struct {
		name  string
		fault Fault
		want  string
	}{
		{
			name:  "with ids",
			fault: Fault{Category: FaultDataQuality, Subsystem: "sise", Reason: "no_match", IDs: []string{"INF1", "2023-24"}},
			want:  "data_quality;sise;no_match;INF1;2023-24",
		},
		{
			name:  "without ids",
			fault: Fault{Category: FaultStructural, Subsystem: "grouper", Reason: "missing_inf"},
			want:  "structural;grouper;missing_inf",
		},
		{
			name:  "separator inside id",
			fault: Fault{Category: FaultResolutionAmbiguity, Subsystem: "paysage", Reason: "multiple_parents", IDs: []string{"a;b"}},
			want:  "resolution_ambiguity;paysage;multiple_parents;a,b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fault.String())
		})
	}
}
