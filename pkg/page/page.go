// Package page splits a classification map into fixed-capacity pages for
// rendering.
//
// Buckets are visited in key order with the unclassified bucket last. Each
// bucket is cut into consecutive runs of at most Capacity graphs in bucket
// order; only a bucket's last page may be short, and pages never mix
// buckets. Concatenating a bucket's pages reproduces the bucket.
package page

import (
	"fmt"

	"github.com/matzehuels/cliquecrit/pkg/classify"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// DefaultCapacity is the number of graphs per page when none is given.
const DefaultCapacity = 6

// Page is a run of graphs from one bucket.
type Page struct {
	// Key labels the bucket the graphs came from.
	Key classify.Key

	// Number is the 1-based page number within the bucket.
	Number int

	// Offset is the bucket position of Graphs[0]. Graph i of the page is
	// graph Offset+i+1 of its bucket when counting from 1.
	Offset int

	Graphs []*graph.Graph
}

// Title returns the page heading, e.g. "16 (page 2)".
func (p Page) Title() string {
	if p.Number <= 1 {
		return p.Key.String()
	}
	return fmt.Sprintf("%s (page %d)", p.Key, p.Number)
}

// Paginate splits m into pages. capacity <= 0 means DefaultCapacity.
func Paginate(m *classify.Map, capacity int) []Page {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	var pages []Page
	for key, bucket := range m.All() {
		for n, off := 1, 0; off < len(bucket); n, off = n+1, off+capacity {
			end := min(off+capacity, len(bucket))
			pages = append(pages, Page{
				Key:    key,
				Number: n,
				Offset: off,
				Graphs: bucket[off:end:end],
			})
		}
	}
	return pages
}
