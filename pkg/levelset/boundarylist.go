package levelset

import (
	"container/list"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// boundaryList is Lin or Lout: an ordered, duplicate-free sequence of
// points supporting O(1) removal at a cursor during a sweep, plus a
// pending-addition buffer that is spliced to the front once the sweep
// completes. This mirrors the Java reference's LinkedList<Point> +
// Iterator.remove() + a separate addlin/addlout list.
type boundaryList struct {
	l       *list.List
	pending *list.List
}

func newBoundaryList() *boundaryList {
	return &boundaryList{l: list.New(), pending: list.New()}
}

func (b *boundaryList) len() int { return b.l.Len() }

// addPending queues p for addition; it will not be visited by the pass
// currently in progress.
func (b *boundaryList) addPending(p models.Point) {
	b.pending.PushBack(p)
}

// splice inserts all pending points at the front of the live list,
// preserving their relative order, then clears the pending buffer. The
// next pass over the list encounters the newest points first.
func (b *boundaryList) splice() {
	for e := b.pending.Back(); e != nil; e = e.Prev() {
		b.l.PushFront(e.Value)
	}
	b.pending.Init()
}

// points returns a snapshot slice of the current contents, front to back.
// Used by observers; never mutated by them.
func (b *boundaryList) points() []models.Point {
	out := make([]models.Point, 0, b.l.Len())
	for e := b.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(models.Point))
	}
	return out
}

// each walks the list front to back, calling fn(element, point) for each
// entry. fn may remove the current element via (*boundaryList).remove;
// each captures the next element before calling fn so removal is safe and
// newly-added points (via addPending, visible only after splice) are never
// observed mid-pass.
func (b *boundaryList) each(fn func(e *list.Element, p models.Point)) {
	e := b.l.Front()
	for e != nil {
		next := e.Next()
		fn(e, e.Value.(models.Point))
		e = next
	}
}

func (b *boundaryList) remove(e *list.Element) {
	b.l.Remove(e)
}
