package canvas

// Picture is the finished recording of a Canvas: a read-only tree of
// passes that a compositor replays, rendering offscreen passes before
// compositing them into their parent.
type Picture struct {
	tree *passTree
	// clipDepth is the number of clips left applied at the root scope.
	clipDepth uint32
}

// Root returns the root pass.
func (p *Picture) Root() *EntityPass {
	root, _ := p.tree.get(p.tree.root)
	return root
}

// Pass returns the pass with the given id.
func (p *Picture) Pass(id PassID) (*EntityPass, error) {
	return p.tree.get(id)
}

// Walk visits the passes depth first in recording order, starting with
// the root at depth 0. Returning false from fn skips the children of the
// pass.
func (p *Picture) Walk(fn func(depth int, pass *EntityPass) bool) {
	p.walk(p.Root(), 0, fn)
}

func (p *Picture) walk(pass *EntityPass, depth int, fn func(int, *EntityPass) bool) {
	if !fn(depth, pass) {
		return
	}
	for _, el := range pass.Elements {
		if !el.IsSubpass() {
			continue
		}
		if child, err := p.tree.get(el.Child); err == nil {
			p.walk(child, depth+1, fn)
		}
	}
}

// PassCount returns the number of passes, root included.
func (p *Picture) PassCount() int { return len(p.tree.nodes) }

// Entities returns the number of entities in all passes.
func (p *Picture) Entities() int {
	n := 0
	for _, pass := range p.tree.nodes {
		n += pass.EntityCount()
	}
	return n
}

// Bounds returns the device-space bounds of everything the picture
// draws. It returns false when the picture draws nothing or something
// unbounded.
func (p *Picture) Bounds() (Rect, bool) {
	var out Rect
	found := false
	bounded := true
	p.Walk(func(_ int, pass *EntityPass) bool {
		for _, el := range pass.Elements {
			if el.IsSubpass() || el.Entity.Kind != EntityDraw {
				continue
			}
			b, ok := el.Entity.Coverage()
			if !ok {
				if pass.Bounds == nil {
					bounded = false
					return false
				}
				b = *pass.Bounds
			}
			if pass.Bounds != nil {
				b, ok = b.Intersection(*pass.Bounds)
				if !ok {
					continue
				}
			}
			if !found {
				out, found = b, true
				continue
			}
			out = out.Union(b)
		}
		return true
	})
	if !bounded {
		return Rect{}, false
	}
	return out, found
}
