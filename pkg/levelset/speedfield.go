package levelset

import "github.com/manics/imagej-fastlevelset/internal/models"

// SpeedField is the capability a speed field exposes to the engine, per
// spec.md §4.2. ComputeSign returns the engine-facing sign of the speed
// at p: +1 means "switch this outside point in", -1 means "switch this
// inside point out". Implementations derive it from a real-valued speed s
// via sign = -signum(s) (signum(0) = 0); engineSign below implements that
// conversion once, shared by both concrete fields.
type SpeedField interface {
	ComputeSign(phi PhiView, p models.Point) int
	RequiresUpdate() bool
	NotifySwitchIn(p models.Point)
	NotifySwitchOut(p models.Point)
	ApplyPendingUpdates()
}

// baseSpeedField supplies the no-op defaults spec.md §4.2 describes for
// fields with no cross-iteration statistics: notify/apply do nothing and
// an update is never required.
type baseSpeedField struct{}

func (baseSpeedField) RequiresUpdate() bool          { return false }
func (baseSpeedField) NotifySwitchIn(models.Point)   {}
func (baseSpeedField) NotifySwitchOut(models.Point)  {}
func (baseSpeedField) ApplyPendingUpdates()          {}

// engineSign converts a continuous speed value (positive: contract,
// negative: expand, the "conventional" level-set sign) into the engine's
// convention (+1: switch in, -1: switch out) via sign = -signum(s).
func engineSign(s float64) int {
	switch {
	case s > 0:
		return -1
	case s < 0:
		return 1
	default:
		return 0
	}
}
