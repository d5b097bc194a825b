package units

import (
	"math"
	"testing"
)

// TestConversionFactors verifies the unit conversion constants against
// their defining values.
func TestConversionFactors(t *testing.T) {
	tests := []struct {
		name      string
		got       float64
		want      float64
		tolerance float64
	}{
		{"1 foot to meters", FeetToM(1), 0.3048, 1e-9},
		{"1 knot to m/s", KnotsToMS(1), 0.514444444444, 1e-6},
		{"1 ft/min to m/s", FpmToMS(1), 0.00508, 1e-9},
		{"30000 feet to meters", FeetToM(30000), 9144.0, 1e-6},
		{"450 knots to m/s", KnotsToMS(450), 231.5, 1e-6},
		{"-1200 ft/min to m/s", FpmToMS(-1200), -6.096, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > tt.tolerance {
				t.Errorf("got %v, want %v (tolerance %v)", tt.got, tt.want, tt.tolerance)
			}
		})
	}
}

// TestZeroPassesThrough makes sure the helpers do not introduce offsets.
func TestZeroPassesThrough(t *testing.T) {
	if FeetToM(0) != 0 || KnotsToMS(0) != 0 || FpmToMS(0) != 0 {
		t.Error("Expected zero input to convert to zero")
	}
}
