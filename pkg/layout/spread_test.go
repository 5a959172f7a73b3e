package layout

import (
	"reflect"
	"testing"
)

func TestSpread(t *testing.T) {
	tests := []struct {
		name   string
		xs     []float64
		widths []float64
		want   []float64
	}{
		{"empty", nil, nil, []float64{}},
		{"single", []float64{5}, []float64{10}, []float64{5}},
		{"shared x packs around it", []float64{0, 0, 0}, []float64{10, 10, 10}, []float64{-10, 0, 10}},
		{"unequal widths pack", []float64{0, 0}, []float64{10, 30}, []float64{-15, 5}},
		{"slack left alone", []float64{0, 100}, []float64{10, 10}, []float64{0, 100}},
		{"even pair pulled apart around midpoint", []float64{0, 4}, []float64{10, 10}, []float64{-3, 7}},
		{"odd count anchors middle", []float64{0, 1, 2}, []float64{10, 10, 10}, []float64{-9, 1, 11}},
		{"shared span next to free span", []float64{0, 0, 50}, []float64{10, 10, 10}, []float64{-5, 5, 50}},
		{
			"even anchors then push outward",
			[]float64{-1, 0, 1, 2},
			[]float64{10, 10, 10, 10},
			[]float64{-14.5, -4.5, 5.5, 15.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spread(tt.xs, tt.widths)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Spread(%v, %v) = %v, want %v", tt.xs, tt.widths, got, tt.want)
			}
		})
	}
}

func TestSpreadDoesNotMutate(t *testing.T) {
	xs := []float64{0, 0, 1}
	widths := []float64{10, 10, 10}
	_ = Spread(xs, widths)
	if !reflect.DeepEqual(xs, []float64{0, 0, 1}) {
		t.Errorf("Spread mutated xs: %v", xs)
	}
}

func TestSortLayerStable(t *testing.T) {
	verts := []vertex{{x: 3}, {x: 1}, {x: 3}, {x: 1}}
	layer := []int{0, 1, 2, 3}

	got := sortLayer(verts, layer)
	want := []int{1, 3, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortLayer() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(layer, []int{0, 1, 2, 3}) {
		t.Errorf("sortLayer mutated its input: %v", layer)
	}
}

func TestAverageX(t *testing.T) {
	verts := []vertex{{x: 2}, {x: 6}}
	if avg, ok := averageX(verts, []int{0, 1}); !ok || avg != 4 {
		t.Errorf("averageX() = %v, %v, want 4, true", avg, ok)
	}
	if _, ok := averageX(verts, nil); ok {
		t.Error("averageX(nil) ok = true, want false")
	}
}

func TestUncrossKeepsIsolatedVertex(t *testing.T) {
	a := &arena{}
	top := a.add(vertex{x: 30})
	lone := a.add(vertex{x: -7})
	child := a.add(vertex{x: 0})
	a.link(top, child)
	a.layers = [][]int{{top}, {child, lone}}

	a.uncross(1, towardIn)
	if a.verts[child].x != 30 {
		t.Errorf("child x = %v, want 30", a.verts[child].x)
	}
	if a.verts[lone].x != -7 {
		t.Errorf("isolated x = %v, want -7 (unchanged)", a.verts[lone].x)
	}
}
