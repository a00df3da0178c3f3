package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "values accumulate with pipe, sources with comma",
			existing: Label{Value: "trending", Source: "recall"},
			incoming: Label{Value: "social", Source: "recall"},
			want:     Label{Value: "trending|social", Source: "recall,recall"},
		},
		{
			name:     "empty existing takes incoming",
			existing: Label{},
			incoming: Label{Value: "a", Source: "s"},
			want:     Label{Value: "a", Source: "s"},
		},
		{
			name:     "empty incoming keeps existing",
			existing: Label{Value: "a", Source: "s"},
			incoming: Label{},
			want:     Label{Value: "a", Source: "s"},
		},
		{
			name:     "missing incoming source keeps existing source",
			existing: Label{Value: "a", Source: "s1"},
			incoming: Label{Value: "b"},
			want:     Label{Value: "a|b", Source: "s1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLabel(tt.existing, tt.incoming)
			if got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
