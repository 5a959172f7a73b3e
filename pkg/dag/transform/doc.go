// Package transform prepares workflow graphs whose levels are missing or
// unreliable.
//
// Schedulers normally report a level for every job. When they do not, a
// graph arrives with every node on level 0 and cannot be laid out as is.
// [NeedsLevels] detects that case and [AssignLevels] fills levels in with a
// longest-path traversal, so every edge points to a strictly deeper level.
//
// [BreakCycles] removes back edges from graphs that contain circular
// dependencies. It should run before level assignment:
//
//	if transform.NeedsLevels(g) {
//	    transform.BreakCycles(g)
//	    transform.AssignLevels(g)
//	}
package transform
