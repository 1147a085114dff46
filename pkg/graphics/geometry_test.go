package graphics

import "testing"

func TestRectFromLTWH(t *testing.T) {
	r := RectFromLTWH(10, 20, 100, 50)
	if r.Right != 110 || r.Bottom != 70 {
		t.Errorf("RectFromLTWH = %+v, want right=110 bottom=70", r)
	}
	if r.Width() != 100 || r.Height() != 50 {
		t.Errorf("size = %vx%v, want 100x50", r.Width(), r.Height())
	}
}

func TestLerpRect(t *testing.T) {
	a := RectFromLTWH(0, 0, 100, 100)
	b := RectFromLTWH(100, 100, 50, 50)
	got := LerpRect(a, b, 0.5)
	want := Rect{Left: 50, Top: 50, Right: 125, Bottom: 125}
	if !got.ApproxEqual(want) {
		t.Errorf("LerpRect = %+v, want %+v", got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{-1, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{3, 0, 1, 1},
		{130, 0, 120, 120},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#00ffff", ColorCyan},
		{"ffffff", ColorWhite},
		{"#000", ColorBlack},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %#x, want %#x", tt.in, uint32(got), uint32(tt.want))
		}
	}
	if _, err := ParseColor("not-a-color"); err == nil {
		t.Error("ParseColor should reject malformed input")
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := ColorCyan.WithAlpha(0)
	if c.Alpha() != 0 {
		t.Errorf("Alpha() = %v, want 0", c.Alpha())
	}
	if c.Hex() != "#00ffff" {
		t.Errorf("Hex() = %q, want #00ffff", c.Hex())
	}
}
