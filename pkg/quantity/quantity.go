package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Kind identifies the resource dimension a Quantity measures
type Kind string

const (
	Memory Kind = "memory"
	CPU    Kind = "cpu"
)

// Base units: megabytes for memory, millicores for CPU
const (
	UnitMegabytes  = "Mi"
	UnitMillicores = "m"
)

// Quantity is a resource amount normalized to its base unit
type Quantity struct {
	Kind      Kind
	Magnitude int64
	Unit      string
}

// String renders the quantity in its base unit so it parses back unchanged
func (q Quantity) String() string {
	return fmt.Sprintf("%d%s", q.Magnitude, q.Unit)
}

// ParseMemory converts "Gi" and "Mi" strings to megabytes.
// Bare numbers and other suffixes are reported as absent.
func ParseMemory(raw string) (Quantity, bool) {
	raw = strings.TrimSpace(raw)

	var scale float64
	var number string
	switch {
	case strings.HasSuffix(raw, "Gi"):
		scale = 1024
		number = strings.TrimSuffix(raw, "Gi")
	case strings.HasSuffix(raw, "Mi"):
		scale = 1
		number = strings.TrimSuffix(raw, "Mi")
	default:
		return Quantity{}, false
	}

	magnitude, ok := scaleMagnitude(number, scale)
	if !ok {
		return Quantity{}, false
	}

	return Quantity{
		Kind:      Memory,
		Magnitude: magnitude,
		Unit:      UnitMegabytes,
	}, true
}

// ParseCPU converts "m" strings and bare core counts to millicores
func ParseCPU(raw string) (Quantity, bool) {
	raw = strings.TrimSpace(raw)

	scale := 1000.0
	number := raw
	if strings.HasSuffix(raw, "m") {
		scale = 1
		number = strings.TrimSuffix(raw, "m")
	}

	magnitude, ok := scaleMagnitude(number, scale)
	if !ok {
		return Quantity{}, false
	}

	return Quantity{
		Kind:      CPU,
		Magnitude: magnitude,
		Unit:      UnitMillicores,
	}, true
}

// FromResource feeds a Kubernetes quantity through the string parsers.
// The canonical form is used, so "1536Mi" stays "1536Mi" while "1G" is absent.
// Memory that is not a whole number of Ki canonicalizes to plain bytes
// ("0.1Gi" becomes "107374183") and is therefore absent too.
func FromResource(q resource.Quantity, kind Kind) (Quantity, bool) {
	switch kind {
	case Memory:
		return ParseMemory(q.String())
	case CPU:
		return ParseCPU(q.String())
	default:
		return Quantity{}, false
	}
}

// scaleMagnitude truncates toward zero; results outside int64 are absent
func scaleMagnitude(number string, scale float64) (int64, bool) {
	value, ok := parseMagnitude(number)
	if !ok {
		return 0, false
	}
	scaled := value * scale
	if scaled >= math.MaxInt64 {
		return 0, false
	}
	return int64(scaled), true
}

func parseMagnitude(number string) (float64, bool) {
	if number == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
