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
			name:     "两侧都有值时累积",
			existing: Label{Value: "a", Source: "recall"},
			incoming: Label{Value: "b", Source: "filter"},
			want:     Label{Value: "a|b", Source: "recall,filter"},
		},
		{
			name:     "已有值为空时取新值",
			existing: Label{},
			incoming: Label{Value: "b", Source: "filter"},
			want:     Label{Value: "b", Source: "filter"},
		},
		{
			name:     "新值为空时保留旧值",
			existing: Label{Value: "a", Source: "recall"},
			incoming: Label{},
			want:     Label{Value: "a", Source: "recall"},
		},
		{
			name:     "新来源为空时保留旧来源",
			existing: Label{Value: "a", Source: "recall"},
			incoming: Label{Value: "b"},
			want:     Label{Value: "a|b", Source: "recall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
