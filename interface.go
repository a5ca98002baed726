package mapgen

import (
	"github.com/unixpickle/model3d/model2d"
)

// FlowField is the external directional field that drives streamline
// integration. The coastline follows the major eigenvector direction, the
// river the minor (orthogonal) one.
//
// Noise is a rotational perturbation applied by the field itself; the
// generator enables it for the duration of an integration attempt and
// always restores the previous state before yielding control, since the
// field is shared & unlocked.
type FlowField interface {
	// Sample returns the major direction at p. Need not be unit length;
	// a zero vector means the field is degenerate at p and integration
	// should stop.
	Sample(p model2d.Coord) model2d.Coord

	// SampleMinor returns the direction orthogonal to Sample at p.
	SampleMinor(p model2d.Coord) model2d.Coord

	// EnableNoise turns on rotational perturbation: angle is the maximum
	// rotation in degrees, size the noise frequency.
	EnableNoise(angle, size float64)

	// DisableNoise turns the perturbation off again.
	DisableNoise()
}

// Outline tells downstream consumers (road networks, district & building
// placement) roughly what is at a given raster cell. Only three questions:
// - can I build on it? (dry land)
// - can I bridge over it? (water: sea or river)
// - is the cell suitable for a dock? (land adjacent to water)
type Outline interface {
	// true if buildings / roads can be placed on this cell
	CanBuildOn(x, y int) bool

	// true if the cell is water that could carry a bridge (implies
	// CanBuildOn false, otherwise no bridge would be needed)
	CanBridgeOver(x, y int) bool

	// true if the cell could anchor a dock; typically land sitting
	// alongside the sea or the river
	SuitableDock(x, y int) bool
}
