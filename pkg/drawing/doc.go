// Package drawing builds vector paths for subtitle drawing commands with
// exact coordinates.
//
// A [Path] is a list of closed contours. Each point carries the command that
// reaches it: [Move] opens a contour, [Line] draws a straight segment and
// [Bezier] points come in threes (two control points and an end point).
// Coordinates are [exact.Sqrt2] values, so shapes derived from circles keep
// their √2 terms until the very end.
//
// # Building Paths
//
// Paths come from drawing words, from [Build], or from [RoundedRect]:
//
//	p, err := drawing.Parse("m 0 0 l 100 0 100 50 0 50")
//	box, err := drawing.RoundedRect(w, h, r)
//
// Transformations ([Path.Translate], [Path.Scale], [Path.Reverse],
// [Path.CombineWithHole]) return new paths. A ring is an outer outline
// combined with a smaller inner outline; the inner one is reversed so the
// fill rule leaves it empty.
//
// # Serialization
//
// Renderers read drawing coordinates as fixed-point integers scaled by
// 2^(p−1), where p is a precision exponent and every integer must fit in a
// signed 26-bit range. [Path.Precision] picks the smallest p that keeps
// every representable coordinate exact, and [Path.Serialize] writes the
// scaled integers:
//
//	words, p, err := box.Serialize()
//	// {\p<p>}words{\p0}
package drawing
