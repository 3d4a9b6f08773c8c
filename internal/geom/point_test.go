package geom

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNeighbors_Order(t *testing.T) {
	got := Pt(10, 20, 30).Neighbors()
	want := [6]Point{
		Pt(11, 20, 30), Pt(9, 20, 30),
		Pt(10, 21, 30), Pt(10, 19, 30),
		Pt(10, 20, 31), Pt(10, 20, 29),
	}
	if got != want {
		t.Errorf("Neighbors() = %v, want %v", got, want)
	}
}

func TestPoint_MapKey(t *testing.T) {
	m := map[Point]string{Pt(1, 2, 3): "a"}
	if got := m[Point{X: 1, Y: 2, Z: 3}]; got != "a" {
		t.Errorf("lookup by value = %q, want a", got)
	}
	if _, ok := m[Pt(3, 2, 1)]; ok {
		t.Error("(3, 2, 1) found in map holding only (1, 2, 3)")
	}
}

func TestRound(t *testing.T) {
	if got := Round(7.6, 8.2, -9.5); got != Pt(8, 8, -10) {
		t.Errorf("Round = %v, want (8, 8, -10)", got)
	}
}

func TestPoint_JSON(t *testing.T) {
	data, err := json.Marshal(Pt(4, -5, 6))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[4,-5,6]" {
		t.Errorf("Marshal = %s, want [4,-5,6]", data)
	}

	var p Point
	if err := json.Unmarshal([]byte(`[7, 8, 9]`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p != Pt(7, 8, 9) {
		t.Errorf("Unmarshal = %v, want (7, 8, 9)", p)
	}

	// Integral values written with a fraction are still whole voxels.
	if err := json.Unmarshal([]byte(`[1.0, 2, 3e2]`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p != Pt(1, 2, 300) {
		t.Errorf("Unmarshal = %v, want (1, 2, 300)", p)
	}
}

func TestPoint_JSONErrors(t *testing.T) {
	tests := map[string]string{
		"two coordinates": `[1, 2]`,
		"object":          `{"x": 1}`,
		"fractional":      `[7.6, 8, 9]`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			p := Pt(-1, -1, -1)
			err := json.Unmarshal([]byte(in), &p)
			if err == nil {
				t.Fatalf("Unmarshal(%s) succeeded with %v", in, p)
			}
			if !strings.HasPrefix(err.Error(), "point: ") {
				t.Errorf("error %q lacks point prefix", err)
			}
			if p != Pt(-1, -1, -1) {
				t.Errorf("point changed to %v on error", p)
			}
		})
	}
}

func TestPoint_String(t *testing.T) {
	if got := Pt(1, 2, 3).String(); got != "(1, 2, 3)" {
		t.Errorf("String() = %q", got)
	}
}
