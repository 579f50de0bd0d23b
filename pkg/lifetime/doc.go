// Package lifetime resolves when each comment is on screen.
//
// Viewer comments get a fixed duration that depends on their mode. Owner
// comments may carry a command (/perm, /vote, /clear) and interact: a new
// owner banner replaces the previous one, /clear removes it, and each poll
// panel stays until the next vote. [Resolve] applies these rules in a single
// pass over the records in start order and returns a [Timeline] whose
// viewer comments feed the layout engine.
//
// Owner commands that do not show anything on screen, such as /jump, are
// not errors; their record IDs are collected in [Timeline.Skipped].
package lifetime
