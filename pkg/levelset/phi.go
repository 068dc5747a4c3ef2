package levelset

// phiValue is one of the four values a phi cell may hold: strictly inside
// (-3), inner boundary (-1), outer boundary (+1), strictly outside (+3).
type phiValue int8

const (
	phiInside        phiValue = -3
	phiInnerBoundary phiValue = -1
	phiOuterBoundary phiValue = 1
	phiOutside       phiValue = 3
)

// PhiView is the read-only view of the phi grid exposed to speed fields.
// Speed fields never read other engine state; this keeps the engine/field
// relationship a one-way dependency as spec.md §9 calls for.
type PhiView interface {
	At(x, y int) int
	Bounds() (width, height int)
}

// phiGrid is the dense W x H signed grid described in spec.md §3. Values
// are stored as int8 since the domain is the four-element set {-3,-1,1,3}.
type phiGrid struct {
	width, height int
	vals          []phiValue
}

func newPhiGrid(width, height int) *phiGrid {
	return &phiGrid{width: width, height: height, vals: make([]phiValue, width*height)}
}

func (g *phiGrid) Bounds() (int, int) { return g.width, g.height }

func (g *phiGrid) At(x, y int) int { return int(g.vals[y*g.width+x]) }

func (g *phiGrid) get(x, y int) phiValue { return g.vals[y*g.width+x] }

func (g *phiGrid) set(x, y int, v phiValue) { g.vals[y*g.width+x] = v }

// speedGrid is the W x H grid of {-1,0,1} described in spec.md §3, recording
// the sign of the latest speed computation at each boundary point.
type speedGrid struct {
	width, height int
	vals          []int8
}

func newSpeedGrid(width, height int) *speedGrid {
	return &speedGrid{width: width, height: height, vals: make([]int8, width*height)}
}

func (g *speedGrid) get(x, y int) int8 { return g.vals[y*g.width+x] }

func (g *speedGrid) set(x, y int, v int8) { g.vals[y*g.width+x] = v }
