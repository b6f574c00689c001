// Package document holds the client-side drawing model: the shape union, its
// wire codec, the ordered Document and erase hit-testing.
//
// A Document is not safe for concurrent use. All mutation happens on the
// single goroutine that drives input and inbound events.
package document

// Document is the ordered set of shapes for one room. Order is z-order.
// No two shapes share a non-empty ID.
type Document struct {
	shapes []Shape
}

// Snapshot is an immutable deep copy of a Document.
type Snapshot struct {
	shapes []Shape
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Insert adds a shape at the top of the z-order. A shape whose ID is already
// present replaces the existing one in place, which keeps the ID invariant
// and makes repeated inserts idempotent.
func (d *Document) Insert(s Shape) {
	s = s.Clone()
	if s.ID != "" {
		if i := d.indexOf(s.ID); i >= 0 {
			d.shapes[i] = s
			return
		}
	}
	d.shapes = append(d.shapes, s)
}

// Replace swaps the shape stored under id. It reports false if id is absent.
func (d *Document) Replace(id string, s Shape) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	s = s.Clone()
	s.ID = id
	d.shapes[i] = s
	return true
}

// RemoveByID deletes the shape with the given ID. It reports false if no
// shape matched.
func (d *Document) RemoveByID(id string) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
	return true
}

// RemoveMatching deletes every shape for which match returns true and
// returns how many were removed.
func (d *Document) RemoveMatching(match func(Shape) bool) int {
	kept := d.shapes[:0]
	removed := 0
	for _, s := range d.shapes {
		if match(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	clear(d.shapes[len(kept):])
	d.shapes = kept
	return removed
}

// Clear removes every shape.
func (d *Document) Clear() {
	d.shapes = nil
}

// Get returns the shape stored under id.
func (d *Document) Get(id string) (Shape, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return Shape{}, false
	}
	return d.shapes[i].Clone(), true
}

// All returns the shapes in z-order. The result is a copy.
func (d *Document) All() []Shape {
	out := make([]Shape, len(d.shapes))
	for i, s := range d.shapes {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of shapes.
func (d *Document) Len() int {
	return len(d.shapes)
}

// Snapshot captures the current state.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{shapes: d.All()}
}

// Restore replaces the current state with a snapshot.
func (d *Document) Restore(snap Snapshot) {
	d.shapes = snap.Shapes()
}

// Shapes returns a copy of the snapshot's shapes.
func (s Snapshot) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = sh.Clone()
	}
	return out
}

// Len returns the number of shapes in the snapshot.
func (s Snapshot) Len() int {
	return len(s.shapes)
}

func (d *Document) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, s := range d.shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}
