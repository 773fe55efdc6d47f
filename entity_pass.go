package canvas

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Pass tree errors.
var (
	ErrPassSealed  = errors.New("canvas: pass is sealed")
	ErrInvalidPass = errors.New("canvas: invalid pass id")
)

// PassID addresses a pass in its tree. IDs carry the generation of the
// tree that issued them, so an ID used with another tree is rejected.
type PassID struct {
	index      uint32
	generation uint32
}

// IsValid reports whether id was ever issued. The zero PassID is never
// issued.
func (id PassID) IsValid() bool { return id.generation != 0 }

// String returns the id in index@generation form.
func (id PassID) String() string {
	return fmt.Sprintf("pass#%d@%d", id.index, id.generation)
}

// Element is one entry of a pass: an entity, or a child pass when Child
// is valid.
type Element struct {
	Entity *Entity
	Child  PassID
}

// IsSubpass reports whether the element is a child pass.
func (e Element) IsSubpass() bool { return e.Child.IsValid() }

// EntityPass is a node of the pass tree: an ordered list of entities and
// child passes, plus how the node composites into its parent.
type EntityPass struct {
	id     PassID
	parent PassID

	Elements []Element

	// Delegate is the paint used to composite the pass into its parent.
	Delegate       Paint
	BackdropFilter ImageFilter
	// Offscreen is set when the pass renders to its own target.
	Offscreen bool
	// ClipDepth is the stack clip depth at the SaveLayer that opened it.
	ClipDepth uint32
	// Bounds limits the pass, in device space, when set.
	Bounds *Rect

	sealed bool
}

// ID returns the pass id.
func (p *EntityPass) ID() PassID { return p.id }

// Parent returns the id of the parent pass. The root has no parent.
func (p *EntityPass) Parent() PassID { return p.parent }

// BlendMode returns the blend mode used to composite the pass.
func (p *EntityPass) BlendMode() BlendMode { return p.Delegate.BlendMode }

// IsSealed reports whether the pass was closed by its Restore.
func (p *EntityPass) IsSealed() bool { return p.sealed }

// EntityCount returns the number of entities directly in the pass.
func (p *EntityPass) EntityCount() int {
	n := 0
	for _, e := range p.Elements {
		if !e.IsSubpass() {
			n++
		}
	}
	return n
}

// passTree is an arena of passes. Children are owned by the tree and
// referenced from their parent's elements by id.
type passTree struct {
	nodes      []*EntityPass
	generation uint32
	root       PassID
}

var treeGeneration atomic.Uint32

func newPassTree() *passTree {
	t := &passTree{generation: treeGeneration.Add(1)}
	t.root = t.alloc(PassID{})
	return t
}

func (t *passTree) alloc(parent PassID) PassID {
	id := PassID{index: uint32(len(t.nodes)), generation: t.generation} //nolint:gosec // pass counts fit in uint32
	t.nodes = append(t.nodes, &EntityPass{id: id, parent: parent})
	return id
}

func (t *passTree) get(id PassID) (*EntityPass, error) {
	if !id.IsValid() || id.generation != t.generation || int(id.index) >= len(t.nodes) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPass, id)
	}
	return t.nodes[id.index], nil
}

// addEntity appends e to the pass.
func (t *passTree) addEntity(id PassID, e *Entity) error {
	p, err := t.get(id)
	if err != nil {
		return err
	}
	if p.sealed {
		return fmt.Errorf("%w: %s", ErrPassSealed, id)
	}
	p.Elements = append(p.Elements, Element{Entity: e})
	return nil
}

// addSubpass creates a child of parent and returns it.
func (t *passTree) addSubpass(parent PassID) (*EntityPass, error) {
	p, err := t.get(parent)
	if err != nil {
		return nil, err
	}
	if p.sealed {
		return nil, fmt.Errorf("%w: %s", ErrPassSealed, parent)
	}
	id := t.alloc(parent)
	p.Elements = append(p.Elements, Element{Child: id})
	return t.nodes[id.index], nil
}

// seal closes the pass to further appends.
func (t *passTree) seal(id PassID) error {
	p, err := t.get(id)
	if err != nil {
		return err
	}
	p.sealed = true
	return nil
}

// copyInto replays the elements of src (a pass of another tree) into dst
// of t. Entities are copied with their transform pre-multiplied by xf and
// their clip depth raised by depth; child passes are copied recursively.
func (t *passTree) copyInto(dst PassID, from *passTree, src PassID, xf Matrix, depth uint32) error {
	sp, err := from.get(src)
	if err != nil {
		return err
	}
	for _, el := range sp.Elements {
		if !el.IsSubpass() {
			e := *el.Entity
			e.Transform = xf.Multiply(e.Transform)
			e.ClipDepth += depth
			if err := t.addEntity(dst, &e); err != nil {
				return err
			}
			continue
		}
		child, err := from.get(el.Child)
		if err != nil {
			return err
		}
		np, err := t.addSubpass(dst)
		if err != nil {
			return err
		}
		np.Delegate = child.Delegate
		np.BackdropFilter = child.BackdropFilter
		np.Offscreen = child.Offscreen
		np.ClipDepth = child.ClipDepth + depth
		if child.Bounds != nil {
			if b, ok := child.Bounds.TransformBounds(xf); ok {
				np.Bounds = &b
			}
		}
		if err := t.copyInto(np.id, from, child.id, xf, depth); err != nil {
			return err
		}
		np.sealed = child.sealed
	}
	return nil
}
