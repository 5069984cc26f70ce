package platform

import "testing"

func TestRect_Center(t *testing.T) {
	x, y := Rect{X: 100, Y: 50, Width: 641, Height: 480}.Center()
	if x != 420 || y != 290 {
		t.Fatalf("expected (420,290), got (%d,%d)", x, y)
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}
	tests := []struct {
		x, y int
		want bool
	}{
		{1920, 0, true},
		{3200, 1024, true},
		{2500, 500, true},
		{1919, 500, false},
		{3201, 500, false},
		{2500, -1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Fatalf("Contains(%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}
