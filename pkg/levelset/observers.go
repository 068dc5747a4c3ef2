package levelset

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// ProgressFunc is invoked after a full outer iteration completes, with the
// number of full iterations done and the configured total. It is passive:
// it must not mutate engine state and must return quickly, per spec.md §5.
type ProgressFunc func(completed, total int)

// BoundaryFunc is invoked after every sweep (speed or smooth) with a
// snapshot of the current Lin/Lout contents, front to back. Snapshots are
// copies; mutating the returned slices has no effect on the engine.
type BoundaryFunc func(lin, lout []models.Point)

// BoundarySpacingObserver is a diagnostic BoundaryFunc that reports the
// mean nearest-neighbor spacing within Lin and within Lout after each
// sweep, using a gonum k-d tree. It is read-only: it never reaches back
// into engine state beyond the point snapshots it's handed, respecting
// "observers don't affect state" (spec.md §2).
type BoundarySpacingObserver struct {
	mu     sync.Mutex
	latest BoundarySpacing
}

// BoundarySpacing is a snapshot of nearest-neighbor spacing statistics.
type BoundarySpacing struct {
	MeanLinSpacing  float64
	MeanLoutSpacing float64
}

// NewBoundarySpacingObserver creates an observer with a zeroed snapshot.
func NewBoundarySpacingObserver() *BoundarySpacingObserver {
	return &BoundarySpacingObserver{}
}

// Observe implements BoundaryFunc; register it with Engine.AddBoundaryObserver.
func (o *BoundarySpacingObserver) Observe(lin, lout []models.Point) {
	spacing := BoundarySpacing{
		MeanLinSpacing:  meanNearestNeighborSpacing(lin),
		MeanLoutSpacing: meanNearestNeighborSpacing(lout),
	}
	o.mu.Lock()
	o.latest = spacing
	o.mu.Unlock()
}

// Latest returns the most recently observed spacing snapshot.
func (o *BoundarySpacingObserver) Latest() BoundarySpacing {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest
}

// meanNearestNeighborSpacing builds a k-d tree over pts and averages each
// point's distance to its nearest distinct neighbor. Mirrors the teacher's
// kdtree.NewNKeeper/NearestSet usage in pkg/interpolation/kriging.go,
// generalized from 3D kriging neighbor search to 2D boundary spacing.
func meanNearestNeighborSpacing(pts []models.Point) float64 {
	if len(pts) < 2 {
		return 0
	}

	coll := make(kdPoints, len(pts))
	for i, p := range pts {
		coll[i] = kdPoint{X: float64(p.X), Y: float64(p.Y)}
	}
	tree := kdtree.New(coll, true)

	var total float64
	var count int
	for _, p := range coll {
		keeper := kdtree.NewNKeeper(2)
		tree.NearestSet(keeper, p)

		best := -1.0
		for _, item := range keeper.Heap {
			if item.Comparable == nil {
				continue
			}
			if item.Dist > 0 && (best < 0 || item.Dist < best) {
				best = item.Dist
			}
		}
		if best >= 0 {
			total += math.Sqrt(best)
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// kdPoint is a 2D point implementing kdtree.Comparable.
type kdPoint struct{ X, Y float64 }

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	if d == 0 {
		return p.X - q.X
	}
	return p.Y - q.Y
}

func (p kdPoint) Dims() int { return 2 }

func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// kdPoints implements kdtree.Interface over a slice of kdPoint, mirroring
// the teacher's Points3D/pointPlane pattern in pkg/interpolation/kriging.go.
type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable        { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p kdPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(kdPlane{kdPoints: p, Dim: d}, kdtree.MedianOfRandoms(kdPlane{kdPoints: p, Dim: d}, 100))
}

type kdPlane struct {
	kdPoints
	kdtree.Dim
}

func (p kdPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.kdPoints[i].X < p.kdPoints[j].X
	default:
		return p.kdPoints[i].Y < p.kdPoints[j].Y
	}
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{kdPoints: p.kdPoints[start:end], Dim: p.Dim}
}

func (p kdPlane) Swap(i, j int) { p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i] }
