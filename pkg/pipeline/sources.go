package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/cliquecrit/pkg/atlas"
	"github.com/matzehuels/cliquecrit/pkg/source"
)

// DefaultSources returns the standard run: the connected atlas graphs from
// index 1, then every graph of orders 8, 9 and 10.
func DefaultSources(graph6Dir string) []SourceSpec {
	return Sources(true, graph6Dir, DefaultOrders)
}

// Sources lists candidate sources in run order. Each order n is read from
// <graph6Dir>/graph<n>.g6 when that file exists and generated in process
// otherwise. Order sources are not filtered for connectivity.
func Sources(includeAtlas bool, graph6Dir string, orders []int) []SourceSpec {
	var specs []SourceSpec
	if includeAtlas {
		specs = append(specs, SourceSpec{Kind: SourceAtlas, Order: 1, FilterConnected: true})
	}
	for _, n := range orders {
		if path := Graph6Path(graph6Dir, n); path != "" {
			specs = append(specs, SourceSpec{Kind: SourceGraph6, Path: path, Order: n})
			continue
		}
		specs = append(specs, SourceSpec{Kind: SourceGenerate, Order: n})
	}
	return specs
}

// Graph6Path returns <dir>/graph<n>.g6 if it is a regular file, else "".
func Graph6Path(dir string, n int) string {
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, fmt.Sprintf("graph%d.g6", n))
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return path
	}
	return ""
}

// Open turns a validated spec into a candidate sequence. Order sources are
// named "order <n>" whether they are read or generated, so statistics line
// up across machines with and without graph6 files.
func Open(spec SourceSpec, a *atlas.Atlas) source.Source {
	switch spec.Kind {
	case SourceAtlas:
		return source.Atlas(a, spec.Order)
	case SourceGraph6:
		src := source.Graph6File(spec.Path)
		if spec.Order > 0 {
			src.Name = fmt.Sprintf("order %d", spec.Order)
		}
		return src
	default:
		return source.Generate(spec.Order)
	}
}
