// Package classify buckets clique-critical graphs by the atlas index of
// their clique graph.
//
// The pieces, leaves first:
//   - [Key]: an atlas index or the [NoMatch] sentinel
//   - [Classifier]: maps a small graph to the first isomorphic atlas entry
//   - [Map]: the append-only classification map, one bucket per key
//   - [Streamer]: drives a candidate sequence through the criticality test
//     and the classifier into a Map
//
// Only precondition violations (nil or malformed input) and source failures
// are errors. Indeterminate, not critical, disconnected and unmatched graphs
// are ordinary outcomes and never abort a stream.
package classify
