package x11

import "testing"

func TestAreaIntersect(t *testing.T) {
	screen := Area{X: 0, Y: 0, Width: 1920, Height: 1080}

	tests := []struct {
		name   string
		other  Area
		want   Area
		wantOK bool
	}{
		{"top panel", Area{X: 0, Y: 32, Width: 1920, Height: 1048}, Area{X: 0, Y: 32, Width: 1920, Height: 1048}, true},
		{"larger than screen", Area{X: -10, Y: -10, Width: 4000, Height: 4000}, screen, true},
		{"second monitor", Area{X: 1920, Y: 0, Width: 1280, Height: 1024}, Area{}, false},
		{"partial", Area{X: 1800, Y: 1000, Width: 400, Height: 400}, Area{X: 1800, Y: 1000, Width: 120, Height: 80}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := screen.Intersect(tt.other)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Intersect = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
