package quantity

import (
	"testing"

	"k8s.io/apimachinery/pkg/api/resource"
)

func TestParseMemory(t *testing.T) {
	tests := []struct {
		raw      string
		expected int64
		present  bool
	}{
		{"2Gi", 2048, true},
		{"512Mi", 512, true},
		{"1.5Gi", 1536, true},
		{"0Mi", 0, true},
		{"", 0, false},
		{"1024", 0, false},
		{"500M", 0, false},
		{"128Ki", 0, false},
		{"abcMi", 0, false},
		{"-1Gi", 0, false},
		{"Gi", 0, false},
		{"1000000Gi", 1024000000, true},
		{"1e300Gi", 0, false},
		{"9007199254740992Gi", 0, false},
		{"1e19Mi", 0, false},
	}

	for _, tt := range tests {
		q, ok := ParseMemory(tt.raw)
		if ok != tt.present {
			t.Errorf("ParseMemory(%q): expected present=%v, got %v", tt.raw, tt.present, ok)
			continue
		}
		if !ok {
			continue
		}
		if q.Magnitude != tt.expected {
			t.Errorf("ParseMemory(%q): expected %d, got %d", tt.raw, tt.expected, q.Magnitude)
		}
		if q.Kind != Memory || q.Unit != UnitMegabytes {
			t.Errorf("ParseMemory(%q): unexpected kind/unit %s/%s", tt.raw, q.Kind, q.Unit)
		}
	}
}

func TestParseCPU(t *testing.T) {
	tests := []struct {
		raw      string
		expected int64
		present  bool
	}{
		{"500m", 500, true},
		{"1", 1000, true},
		{"0.25", 250, true},
		{"2.0005", 2000, true},
		{"0", 0, true},
		{"", 0, false},
		{"m", 0, false},
		{"fast", 0, false},
		{"-100m", 0, false},
		{"NaN", 0, false},
		{"1e300", 0, false},
		{"9223372036854775807m", 0, false},
		{"1e16", 0, false},
	}

	for _, tt := range tests {
		q, ok := ParseCPU(tt.raw)
		if ok != tt.present {
			t.Errorf("ParseCPU(%q): expected present=%v, got %v", tt.raw, tt.present, ok)
			continue
		}
		if ok && q.Magnitude != tt.expected {
			t.Errorf("ParseCPU(%q): expected %d, got %d", tt.raw, tt.expected, q.Magnitude)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, raw := range []string{"2Gi", "300Mi", "1.5Gi", "7Mi"} {
		first, ok := ParseMemory(raw)
		if !ok {
			t.Fatalf("ParseMemory(%q) returned absent", raw)
		}
		second, ok := ParseMemory(first.String())
		if !ok || second != first {
			t.Errorf("Memory round trip of %q: %v -> %v", raw, first, second)
		}
	}

	for _, raw := range []string{"500m", "1", "0.1", "3"} {
		first, ok := ParseCPU(raw)
		if !ok {
			t.Fatalf("ParseCPU(%q) returned absent", raw)
		}
		second, ok := ParseCPU(first.String())
		if !ok || second != first {
			t.Errorf("CPU round trip of %q: %v -> %v", raw, first, second)
		}
	}
}

func TestFromResource(t *testing.T) {
	mem, ok := FromResource(resource.MustParse("1Gi"), Memory)
	if !ok || mem.Magnitude != 1024 {
		t.Errorf("Expected 1Gi -> 1024Mi, got %v (present=%v)", mem, ok)
	}

	cpu, ok := FromResource(resource.MustParse("250m"), CPU)
	if !ok || cpu.Magnitude != 250 {
		t.Errorf("Expected 250m -> 250, got %v (present=%v)", cpu, ok)
	}

	if _, ok := FromResource(resource.MustParse("1G"), Memory); ok {
		t.Error("Expected decimal SI memory to be absent")
	}

	// Not a whole number of Ki: canonical form is plain bytes
	frac := resource.MustParse("0.1Gi")
	if _, ok := FromResource(frac, Memory); ok {
		t.Errorf("Expected fractional Gi capacity (%s) to be absent", frac.String())
	}
	if q, ok := ParseMemory("0.1Gi"); !ok || q.Magnitude != 102 {
		t.Errorf("Expected raw 0.1Gi string -> 102Mi, got %v (present=%v)", q, ok)
	}
}
