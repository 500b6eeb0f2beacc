package ui

import (
	"math"
	"testing"
)

func TestBarFraction(t *testing.T) {
	tests := []struct {
		name         string
		value, limit float32
		want         float32
	}{
		{"half", 0.5, 1, 0.5},
		{"scaled limit", 0.6, 1.2, 0.5},
		{"over limit", 1.5, 1, 1},
		{"negative", -0.2, 1, 0},
		{"zero limit", 0.5, 0, 0},
		{"NaN value", float32(math.NaN()), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := barFraction(tt.value, tt.limit); got != tt.want {
				t.Errorf("barFraction(%v, %v) = %v, want %v", tt.value, tt.limit, got, tt.want)
			}
		})
	}
}

func TestBarTextUsesThemeFormat(t *testing.T) {
	th := DefaultTheme()
	if got := th.barText(0.5); got != "0.50" {
		t.Errorf("default format gave %q, want 0.50", got)
	}

	th.BarFormat = "%.0f%%"
	if got := th.barText(42); got != "42%" {
		t.Errorf("percent format gave %q, want 42%%", got)
	}

	th.BarFormat = ""
	if got := th.barText(1); got != "1.00" {
		t.Errorf("empty format gave %q, want 1.00", got)
	}
}
