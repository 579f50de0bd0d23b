// Package pkg provides the core libraries for danmaku comment layout.
//
// # Overview
//
// Danmaku takes NicoNico-style video comments, decides when each one is on
// screen, and places them so that comments visible at the same moment never
// overlap. Owner banners and poll panels are drawn as vector shapes with
// exact coordinates. The pkg directory is organized into these areas:
//
//  1. [exact], [numfmt] - Exact arithmetic over ℚ[√2] and decimal output
//  2. [drawing], [vote] - Vector drawings, rounded boxes and poll panels
//  3. [interval], [layout] - Time index and the collision-avoiding layout
//  4. [lifetime] - Display lifetimes and owner commands
//  5. [pipeline] - Orchestration (lifetimes → layout → shapes)
//  6. [io] - JSON import of records and export of results
//
// # Architecture
//
// The typical data flow through danmaku:
//
//	Comment records (JSON)
//	         ↓
//	    [lifetime] package (start and end times, owner commands)
//	         ↓
//	    [layout] package (vertical positions, overflow)
//	         ↓
//	    [vote] package (banners and poll panels)
//	         ↓
//	    JSON output with exact coordinates
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/danmaku/pkg/io"
//	    "github.com/matzehuels/danmaku/pkg/pipeline"
//	)
//
//	records, _ := io.ImportJSON("records.json")
//	res, _ := pipeline.NewRunner(nil).Execute(context.Background(), records, pipeline.Options{})
//	_ = io.ExportJSON(res, "records.layout.json")
//
// # Exactness
//
// Coordinates never pass through float64. Times and sizes are big.Rat, the
// corner control points of rounded boxes live in ℚ[√2], and drawings are
// serialized at the smallest fixed-point precision that keeps every
// coordinate within 25 bits.
package pkg
