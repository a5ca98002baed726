package mapgen

// LandmassType indicates roughly what shape of landmass the geometric
// synthesizer builds. The types differ in how the primary outline is
// constructed & whether secondary masses are scattered around it.
type LandmassType string

const (
	// Continent is a large hull-based mass filling much of the world.
	Continent LandmassType = "continent"

	// Peninsula is a perturbed-circle body attached flush to a randomly
	// chosen world edge by a rectangular base.
	Peninsula LandmassType = "peninsula"

	// IslandChain is one dominant perturbed-circle island plus a line of
	// smaller secondary islands.
	IslandChain LandmassType = "island_chain"

	// Archipelago is a hull-based core with secondary islands scattered
	// all around it.
	Archipelago LandmassType = "archipelago"
)

var allLandmassTypes = []LandmassType{
	Continent, Peninsula, IslandChain, Archipelago,
}

// AllLandmassTypes returns every known LandmassType.
func AllLandmassTypes() []LandmassType {
	return allLandmassTypes
}

// valid reports whether t is one of the known types.
func (t LandmassType) valid() bool {
	for _, k := range allLandmassTypes {
		if t == k {
			return true
		}
	}
	return false
}

// anchored reports whether the type builds its primary outline from a
// single perturbed circle (as opposed to a scattered-hull core).
func (t LandmassType) anchored() bool {
	return t == Peninsula || t == IslandChain
}
