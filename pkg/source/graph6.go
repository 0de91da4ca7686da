package source

import (
	"bufio"
	"io"
	"os"
	"strings"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Graph6 returns a source reading one graph6 string per line from r.
// Blank lines are skipped and a leading ">>graph6<<" header is accepted.
// Decode errors are reported as name:line and end the sequence.
//
// The reader is consumed lazily and may only be iterated once.
func Graph6(name string, r io.Reader) Source {
	return Source{
		Name: name,
		Seq: func(yield func(*graph.Graph, error) bool) {
			scan(name, r, yield)
		},
	}
}

// Graph6File returns a source over the graph6 file at path. The file is
// opened when iteration starts and closed when it ends, so the source may
// be iterated more than once.
func Graph6File(path string) Source {
	return Source{
		Name: path,
		Seq: func(yield func(*graph.Graph, error) bool) {
			f, err := os.Open(path)
			if err != nil {
				code := errs.ErrCodeInvalidInput
				if os.IsNotExist(err) {
					code = errs.ErrCodeFileNotFound
				}
				yield(nil, errs.Wrap(code, err, "open %s", path))
				return
			}
			defer f.Close()
			scan(path, f, yield)
		},
	}
}

func scan(name string, r io.Reader, yield func(*graph.Graph, error) bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text == graph.Graph6Header {
			continue
		}
		g, err := graph.ParseGraph6(text)
		if err != nil {
			yield(nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "%s:%d", name, line))
			return
		}
		if !yield(g, nil) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		yield(nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", name))
	}
}
