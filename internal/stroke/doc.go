// Package stroke converts stroked paths into fill geometry.
//
// The general route expands every subpath into a closed outline that is
// filled with the non-zero winding rule:
//   - the forward side is offset by -width/2 perpendicular to the tangent
//   - the backward side is offset by +width/2 and appended in reverse
//   - caps connect the two sides at open ends
//   - joins connect consecutive segments on each side
//
// Rectilinear paths stroked with miter joins and butt or square caps take a
// shorter route: each segment becomes one box, extended by half the width
// where it meets a perpendicular segment or a square cap, and the boxes are
// unioned by the rectangular sweep.
//
// Dashed strokes are first split into one open subpath per dash.
//
// The expansion follows the kurbo and tiny-skia stroker design.
package stroke
