// Package io provides JSON import of comment records and JSON export of
// pipeline results.
//
// # Record Format
//
// Records are read from an object with a "comments" array:
//
//	{
//	  "comments": [
//	    {"id": "c1", "vpos": 1.5, "mode": "scroll", "text": "hello", "width": 40, "height": 33},
//	    {"id": "c2", "vpos": "21/10", "mode": "ue", "text": "top", "width": 30, "height": 33},
//	    {"vpos": 3, "owner": true, "text": "/vote start \"Best?\" A B"}
//	  ]
//	}
//
// Required:
//   - vpos: seconds from the start of the video
//
// Optional:
//   - id: unique identifier (a random UUID when omitted)
//   - owner: true for uploader comments, whose text may be a command
//   - mode: scroll (default), top or bottom; naka, ue and shita also work
//   - text: the comment text
//   - width, height: rendered size in layout pixels, from the font metrics
//
// Numbers are decoded exactly. Both JSON numbers and decimal or fraction
// strings are accepted, so "0.1" is one tenth, not the nearest float64.
//
// # Export
//
// [WriteJSON] writes the placed comments, the owner banners and the poll
// panels with their serialized drawings:
//
//	err := io.ExportJSON(result, "layout.json")
//
// Rationals are written as JSON numbers when they have a finite decimal
// expansion and as "a/b" strings otherwise, so the export can be read back
// without rounding.
package io
