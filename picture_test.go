package canvas

import "testing"

func TestPicture_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		record func(c *Canvas)
		want   Rect
		wantOK bool
	}{
		{"empty", func(*Canvas) {}, Rect{}, false},
		{"single", func(c *Canvas) { c.DrawRect(MakeXYWH(1, 2, 3, 4), NewPaint()) }, MakeXYWH(1, 2, 3, 4), true},
		{"union", func(c *Canvas) {
			c.DrawRect(MakeXYWH(0, 0, 10, 10), NewPaint())
			c.Translate(Vec3(20, 0, 0))
			c.DrawRect(MakeXYWH(0, 0, 10, 10), NewPaint())
		}, MakeXYWH(0, 0, 30, 10), true},
		{"clips ignored", func(c *Canvas) {
			c.ClipRect(MakeXYWH(0, 0, 100, 100), ClipIntersect)
			c.DrawRect(MakeXYWH(1, 1, 1, 1), NewPaint())
		}, MakeXYWH(1, 1, 1, 1), true},
		{"unbounded", func(c *Canvas) { c.DrawPaint(NewPaint()) }, Rect{}, false},
		{"unbounded inside bounded layer", func(c *Canvas) {
			b := MakeXYWH(0, 0, 5, 5)
			c.SaveLayer(NewPaint(), &b, nil)
			c.DrawPaint(NewPaint())
			c.Restore()
		}, MakeXYWH(0, 0, 5, 5), true},
		{"layer bounds clip draws", func(c *Canvas) {
			b := MakeXYWH(0, 0, 5, 5)
			c.SaveLayer(NewPaint(), &b, nil)
			c.DrawRect(MakeXYWH(2, 2, 10, 10), NewPaint())
			c.Restore()
		}, MakeXYWH(2, 2, 3, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.record(c)
			got, ok := finish(t, c).Bounds()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Bounds() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPicture_Walk(t *testing.T) {
	c := New()
	c.SaveLayer(NewPaint(), nil, nil)
	c.SaveLayer(NewPaint(), nil, nil)
	c.Restore()
	c.Restore()
	c.SaveLayer(NewPaint(), nil, nil)
	c.Restore()
	pic := finish(t, c)

	var depths []int
	pic.Walk(func(depth int, _ *EntityPass) bool {
		depths = append(depths, depth)
		return true
	})
	want := []int{0, 1, 2, 1}
	if len(depths) != len(want) {
		t.Fatalf("visited %v, want %v", depths, want)
	}
	for i := range want {
		if depths[i] != want[i] {
			t.Errorf("visit %d depth = %d, want %d", i, depths[i], want[i])
		}
	}

	visited := 0
	pic.Walk(func(depth int, _ *EntityPass) bool {
		visited++
		return depth == 0
	})
	if visited != 3 {
		t.Errorf("pruned walk visited %d passes, want 3", visited)
	}
}

func TestPicture_Pass(t *testing.T) {
	pic := finish(t, New())
	if p, err := pic.Pass(pic.Root().ID()); err != nil || p != pic.Root() {
		t.Errorf("Pass(root) = %v, %v", p, err)
	}
	other := finish(t, New())
	if _, err := pic.Pass(other.Root().ID()); err == nil {
		t.Error("Pass() accepted an id from another picture")
	}
}
