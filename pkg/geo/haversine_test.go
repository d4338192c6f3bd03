package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		a, b             orb.Point
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name:             "Singapore CBD to Changi Airport",
			a:                orb.Point{103.8513, 1.2830}, // Raffles Place
			b:                orb.Point{103.9915, 1.3644}, // Changi Airport
			wantMeters:       18_023,
			tolerancePercent: 1,
		},
		{
			name:       "Same point",
			a:          orb.Point{103.8198, 1.3521},
			b:          orb.Point{103.8198, 1.3521},
			wantMeters: 0,
		},
		{
			name:             "London to Paris",
			a:                orb.Point{-0.1278, 51.5074},
			b:                orb.Point{2.3522, 48.8566},
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name:             "Short distance (~100m)",
			a:                orb.Point{103.8198, 1.3521},
			b:                orb.Point{103.8198, 1.3530},
			wantMeters:       100,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestPointToSegmentDist(t *testing.T) {
	tests := []struct {
		name      string
		p, a, b   orb.Point
		wantDist  float64
		wantRatio float64
	}{
		{"At start", orb.Point{0, 0}, orb.Point{0, 0}, orb.Point{10, 0}, 0, 0},
		{"At end", orb.Point{10, 0}, orb.Point{0, 0}, orb.Point{10, 0}, 0, 1},
		{"Midpoint perpendicular", orb.Point{5, 3}, orb.Point{0, 0}, orb.Point{10, 0}, 3, 0.5},
		{"Beyond end clamps", orb.Point{14, 3}, orb.Point{0, 0}, orb.Point{10, 0}, 5, 1},
		{"Degenerate segment", orb.Point{3, 4}, orb.Point{0, 0}, orb.Point{0, 0}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ratio := PointToSegmentDist(tt.p, tt.a, tt.b)
			if math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("dist = %f, want %f", dist, tt.wantDist)
			}
			if math.Abs(ratio-tt.wantRatio) > 1e-9 {
				t.Errorf("ratio = %f, want %f", ratio, tt.wantRatio)
			}
		})
	}
}

func BenchmarkHaversine(b *testing.B) {
	p, q := orb.Point{103.8198, 1.3521}, orb.Point{103.8520, 1.2905}
	for b.Loop() {
		Haversine(p, q)
	}
}
