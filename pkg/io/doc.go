// Package io saves and restores classification reports.
//
// # Overview
//
// A [Report] is the durable result of a classification run: every bucket
// of the classification map with its graphs in bucket order, the page
// capacity the run was configured with, and the statistics of each source.
// Reports let a run be rendered again, in another format or layout,
// without classifying anything twice.
//
// # JSON Format
//
//	{
//	  "run_id": "6f1c5f0e-...",
//	  "created_at": "2025-01-02T15:04:05Z",
//	  "capacity": 6,
//	  "atlas_max_order": 7,
//	  "buckets": [
//	    {"key": "3", "graphs": ["@", "Bw"]},
//	    {"key": "unclassified", "graphs": ["G?r@`_"]}
//	  ],
//	  "sources": [
//	    {"source": "atlas", "examined": 1252, "accepted": 140, ...}
//	  ]
//	}
//
// Graphs are stored in graph6 notation. Keys are atlas indices in decimal,
// or "unclassified" for graphs whose clique graph is not in the atlas.
//
// # Validation
//
// [ReadJSON] rebuilds the classification map and rejects a report with a
// malformed key (INVALID_FORMAT) or a malformed graph6 line (INVALID_GRAPH).
//
// # TOML
//
// [WriteTOML] writes the same document as TOML for hand inspection. There
// is no TOML reader; JSON is the interchange format.
package io
