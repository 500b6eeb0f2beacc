package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/evergreen/config"
)

func defaultCamera(t *testing.T) *Camera {
	t.Helper()
	return New(&config.Defaults().Camera)
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestNew(t *testing.T) {
	cam := defaultCamera(t)

	if !near(cam.Distance, 25) {
		t.Errorf("distance = %f, want 25", cam.Distance)
	}
	x, y, z := cam.Position()
	if !near(x, 0) || !near(y, 0) || !near(z, 25) {
		t.Errorf("position = (%f, %f, %f), want (0, 0, 25)", x, y, z)
	}
}

func TestPolarClamp(t *testing.T) {
	cam := defaultCamera(t)

	cam.Orbit(0, 10000)
	if !near(cam.Polar, cam.MinPolar) {
		t.Errorf("polar = %f, want min %f", cam.Polar, cam.MinPolar)
	}
	cam.Orbit(0, -20000)
	if !near(cam.Polar, cam.MaxPolar) {
		t.Errorf("polar = %f, want max %f", cam.Polar, cam.MaxPolar)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := defaultCamera(t)

	cam.Zoom(100)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %f, want min %f", cam.Distance, cam.MinDistance)
	}
	cam.Zoom(-100)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance = %f, want max %f", cam.Distance, cam.MaxDistance)
	}
}

func TestAutoRotate(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		dt      float32
		moved   bool
	}{
		{"enabled", true, 1, true},
		{"disabled", false, 1, false},
		{"zero dt", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := defaultCamera(t)
			before := cam.Azimuth
			cam.Update(tt.dt, tt.enabled)
			if moved := cam.Azimuth != before; moved != tt.moved {
				t.Errorf("moved = %v, want %v", moved, tt.moved)
			}
		})
	}
}

func TestAutoRotatePeriod(t *testing.T) {
	cam := defaultCamera(t)
	cam.AutoRotateSpeed = 2

	// Speed 2 is one orbit every 30 seconds
	for i := 0; i < 15*60; i++ {
		cam.Update(1.0/60, true)
	}
	if !near(float32(math.Abs(float64(cam.Azimuth))), math.Pi) {
		t.Errorf("azimuth after half period = %f, want ±pi", cam.Azimuth)
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	cam := defaultCamera(t)
	cam.Orbit(120, -40)
	x, y, z := cam.Position()
	r := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if !near(r, cam.Distance) {
		t.Errorf("|eye| = %f, want %f", r, cam.Distance)
	}
}

func TestReset(t *testing.T) {
	cam := defaultCamera(t)
	cam.Orbit(300, 50)
	cam.Zoom(3)
	cam.Reset()

	if !near(cam.Azimuth, 0) || !near(cam.Polar, math.Pi/2) || !near(cam.Distance, 25) {
		t.Errorf("after reset: az=%f polar=%f dist=%f", cam.Azimuth, cam.Polar, cam.Distance)
	}
}
