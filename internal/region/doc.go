// Package region implements a boundary-encoded representation of a pixel region.
//
// A Region stores only the outline of a connected set of pixels, not its
// interior. Membership of interior pixels is recovered on demand by casting
// rays from the query point toward the boundary.
//
// # Coordinate System
//
// Regions live in the coordinate space of the buffer they were extracted from:
//   - X increases rightward, Y increases downward
//   - A mask built with SubImage keeps its parent's coordinates, so boundary
//     points of a window are reported in the larger image's space
//   - Min and Max are inclusive corners; Bounds returns the half-open Go
//     rectangle Min..Max+1
//
// # Ordering
//
// Boundary points are kept in row-major order (by Y, then by X) with no
// duplicates. Both constructors emit points already sorted, and every lookup
// relies on that order.
//
// # Thread Safety
//
// A Region is never modified after construction. All methods are read-only
// and may be called concurrently on the same Region.
//
// # Limitations
//
// Interior classification is a four-ray heuristic, not an exact
// point-in-polygon test. A point inside a hole, or in a pocket that is closed
// on all four axes but open diagonally, is reported as interior. ToMask
// inherits the same behavior.
package region
