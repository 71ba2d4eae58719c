package common

// Aabb is an axis-aligned bounding box in object space.
// The zero value is not a valid box; use NewAabb to get an empty box that
// Extend can grow from.
type Aabb struct {
	// Min is the minimum corner of the box.
	Min [3]float32
	// Max is the maximum corner of the box.
	Max [3]float32
}

const aabbSentinel = float32(1e30)

// NewAabb returns an empty bounding box whose corners are inverted sentinels,
// so that extending it with any point produces a valid box.
//
// Returns:
//   - Aabb: an empty bounding box
func NewAabb() Aabb {
	return Aabb{
		Min: [3]float32{aabbSentinel, aabbSentinel, aabbSentinel},
		Max: [3]float32{-aabbSentinel, -aabbSentinel, -aabbSentinel},
	}
}

// IsEmpty reports whether the box has never been extended.
//
// Returns:
//   - bool: true if the box contains no points
func (a Aabb) IsEmpty() bool {
	return a.Min[0] > a.Max[0]
}

// Extend grows the box to contain the given point.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - Aabb: the grown box
func (a Aabb) Extend(p [3]float32) Aabb {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] {
			a.Min[i] = p[i]
		}
		if p[i] > a.Max[i] {
			a.Max[i] = p[i]
		}
	}
	return a
}

// Union grows the box to contain another box. Empty boxes are ignored.
//
// Parameters:
//   - other: the box to include
//
// Returns:
//   - Aabb: the union of both boxes
func (a Aabb) Union(other Aabb) Aabb {
	if other.IsEmpty() {
		return a
	}
	return a.Extend(other.Min).Extend(other.Max)
}

// Center computes the midpoint of the box.
//
// Returns:
//   - [3]float32: the center point
func (a Aabb) Center() [3]float32 {
	return [3]float32{
		(a.Min[0] + a.Max[0]) * 0.5,
		(a.Min[1] + a.Max[1]) * 0.5,
		(a.Min[2] + a.Max[2]) * 0.5,
	}
}

// MaxUvSlots is the number of texture-coordinate sets the renderer supports.
// Source assets may declare more; the remap squeezes them down to this many.
const MaxUvSlots = 2

// MaxSourceUvSets is the number of source texture-coordinate sets a UvMap can describe.
const MaxSourceUvSets = 8

// UvSlot identifies one of the renderer's texture-coordinate sets, or marks a
// source set as unused.
type UvSlot uint8

const (
	// UvUnused marks a source UV set that no material parameter samples.
	UvUnused UvSlot = iota
	// Uv0 maps a source UV set to the renderer's first texture-coordinate set.
	Uv0
	// Uv1 maps a source UV set to the renderer's second texture-coordinate set.
	Uv1
)

// UvMap maps each source texture-coordinate set index to one of the renderer's
// supported sets. Source assets may declare up to MaxSourceUvSets sets; the
// renderer only feeds MaxUvSlots of them to shaders, so materials that sample
// more sets than that share the mapped ones.
type UvMap [MaxSourceUvSets]UvSlot
