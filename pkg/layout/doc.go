// Package layout assigns vertical positions to danmaku comments so that
// comments on screen at the same time do not cover each other.
//
// # Model
//
// A [Comment] lives on screen during [Start, End) and is Width×Height
// layout pixels. [Scroll] comments travel from the right edge to past the
// left edge over their lifetime; [Top] and [Bottom] comments stay centred.
// Scrolling and fixed comments are separate classes and never collide.
//
// # Placement
//
// [Engine.Layout] visits comments in start order and keeps the placed ones
// in an [interval.Index]. For each new comment it fetches every placed
// comment whose lifetime touches its own, then runs a greedy loop: while
// some candidate of the same class overlaps the current band and their
// horizontal spans meet at either end of the shared time window, move the
// band just past that candidate (down for top-anchored traffic, up for
// [Bottom]). Two scrolling comments of equal width and equal lifetime meet
// whenever they overlap in time; comments with a lag only meet when the
// earlier one has not yet moved its own width away from the right edge.
//
// When the band would leave the screen the comment overflows: it is put at
// a random integer Y drawn from the engine's seeded generator and its
// opacity drops to [Config.FadedOpacity]. Overflow is a normal outcome,
// reported through [Comment.Overflow] and [Stats], never as an error.
//
//	e, _ := layout.NewEngine(layout.DefaultConfig(), layout.WithSeed(42))
//	res, err := e.Layout(ctx, comments)
package layout
