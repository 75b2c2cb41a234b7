package coord

import (
	"math"
	"testing"
)

func TestMap_ClickScenario(t *testing.T) {
	x, y := Map(100, 200, 1920, 1080)
	if x != 200 || y != 400 {
		t.Errorf("Map(100, 200) = (%d, %d), want (200, 400)", x, y)
	}
}

func TestMap_Clamps(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY int
	}{
		{"origin", 0, 0, 0, 0},
		{"negative", -10, -1, 0, 0},
		{"beyond right edge", 960, 10, 1919, 20},
		{"beyond bottom edge", 10, 540, 20, 1079},
		{"far outside", 1e9, 1e9, 1919, 1079},
		{"last pixel", 959.5, 539.5, 1919, 1079},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Map(tt.x, tt.y, 1920, 1080)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Map(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMapper_RoundsHalfToEven(t *testing.T) {
	m := Mapper{Scale: 1, Width: 100, Height: 100}
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{3.5, 4},
		{2.4, 2},
		{2.6, 3},
	}
	for _, tt := range tests {
		if got, _ := m.Map(tt.in, 0); got != tt.want {
			t.Errorf("Map(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMapper_CustomScale(t *testing.T) {
	m := Mapper{Scale: 1.5, Width: 2560, Height: 1440}
	x, y := m.Map(100, 200)
	if x != 150 || y != 300 {
		t.Errorf("Map(100, 200) at 1.5x = (%d, %d), want (150, 300)", x, y)
	}

	// Zero scale falls back to the default.
	x, y = Mapper{Width: 1920, Height: 1080}.Map(100, 200)
	if x != 200 || y != 400 {
		t.Errorf("Map with zero scale = (%d, %d), want (200, 400)", x, y)
	}
}

func TestMap_AlwaysWithinBounds(t *testing.T) {
	inputs := []float64{-1e12, -3.7, -0.5, 0, 0.49, 1, 17.25, 480, 959.4, 1e6, math.Inf(1), math.Inf(-1), math.NaN()}
	sizes := [][2]int{{1920, 1080}, {1, 1}, {800, 600}, {3840, 2160}}

	for _, size := range sizes {
		for _, x := range inputs {
			for _, y := range inputs {
				px, py := Map(x, y, size[0], size[1])
				if px < 0 || px >= size[0] || py < 0 || py >= size[1] {
					t.Fatalf("Map(%v, %v) on %dx%d = (%d, %d), out of bounds", x, y, size[0], size[1], px, py)
				}
			}
		}
	}
}

func TestClamp_Idempotent(t *testing.T) {
	for _, size := range []int{1, 2, 1080, 1920} {
		for _, v := range []int{-100, -1, 0, 1, size / 2, size - 1, size, size + 1, 1 << 20} {
			once := Clamp(v, size)
			if twice := Clamp(once, size); twice != once {
				t.Errorf("Clamp(Clamp(%d, %d)) = %d, want %d", v, size, twice, once)
			}
		}
	}
}

func TestClamp_EmptyScreen(t *testing.T) {
	if got := Clamp(10, 0); got != 0 {
		t.Errorf("Clamp(10, 0) = %d, want 0", got)
	}
}
