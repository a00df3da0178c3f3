package conv

import "testing"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"int64", int64(7), 7, true},
		{"bool true", true, 1, true},
		{"string rejected", "3", 0, false},
		{"nil rejected", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMapToFloat64(t *testing.T) {
	got := MapToFloat64(map[string]any{
		"a": 0.3,
		"b": 1,
		"c": "skip",
	})
	if len(got) != 2 || got["a"] != 0.3 || got["b"] != 1 {
		t.Errorf("MapToFloat64 = %v", got)
	}
}

func TestSliceAnyToInt(t *testing.T) {
	got := SliceAnyToInt([]any{10, 20.0, "skip", 30})
	want := []int{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("SliceAnyToInt = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
	if SliceAnyToInt("not a slice") != nil {
		t.Error("non-slice input must return nil")
	}
}

func TestSliceAnyToString(t *testing.T) {
	got := SliceAnyToString([]any{"a", 2, true})
	want := []string{"a", "2", "1"}
	if len(got) != len(want) {
		t.Fatalf("SliceAnyToString = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"name": "glowrec", "n": 5}
	if got := ConfigGet(m, "name", ""); got != "glowrec" {
		t.Errorf("ConfigGet name = %q", got)
	}
	if got := ConfigGet(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet missing = %q, want fallback", got)
	}
	if got := ConfigGet(m, "name", 0); got != 0 {
		t.Errorf("type mismatch must return default, got %d", got)
	}
	if got := ConfigGetInt64(m, "n", 0); got != 5 {
		t.Errorf("ConfigGetInt64 = %d, want 5", got)
	}
	if got := ConfigGetFloat64(m, "n", 0); got != 5 {
		t.Errorf("ConfigGetFloat64 = %v, want 5", got)
	}
}
