package graph

import (
	"errors"
	"strings"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
)

// Graph6Header is the optional header line allowed at the start of a graph6 file.
const Graph6Header = ">>graph6<<"

// ErrGraph6 marks every graph6 decoding failure.
var ErrGraph6 = errors.New("malformed graph6")

const (
	g6Bias    = 63
	g6MaxByte = 126
)

// ParseGraph6 decodes one graph6 string. The vertices of the result are
// labelled 0..n-1 in encoding order. Trailing newlines and a leading
// [Graph6Header] are ignored.
func ParseGraph6(s string) (*Graph, error) {
	s = strings.TrimPrefix(strings.TrimRight(s, "\r\n"), Graph6Header)
	if s == "" {
		return nil, g6Error("empty input")
	}
	switch s[0] {
	case ':':
		return nil, g6Error("sparse6 is not supported")
	case '&':
		return nil, g6Error("digraph6 is not supported")
	}
	data := []byte(s)
	for i, c := range data {
		if c < g6Bias || c > g6MaxByte {
			return nil, g6Error("byte %d out of range: %q", i, c)
		}
	}

	n, rest, err := decodeN(data)
	if err != nil {
		return nil, err
	}
	bitsNeeded := n * (n - 1) / 2
	want := (bitsNeeded + 5) / 6
	if len(rest) != want {
		return nil, g6Error("expected %d data bytes for %d vertices, got %d", want, n, len(rest))
	}

	adj := make([]VertexSet, n)
	for i := range adj {
		adj[i] = NewVertexSet(n)
	}
	size := 0
	k := 0
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			if g6Bit(rest, k) {
				adj[i].Add(j)
				adj[j].Add(i)
				size++
			}
			k++
		}
	}
	for ; k < want*6; k++ {
		if g6Bit(rest, k) {
			return nil, g6Error("non-zero padding bits")
		}
	}

	g := &Graph{
		ids:  make([]int64, n),
		pos:  make(map[int64]int, n),
		adj:  adj,
		size: size,
	}
	for i := range n {
		g.ids[i] = int64(i)
		g.pos[int64(i)] = i
	}
	return g, nil
}

// MustParseGraph6 is like [ParseGraph6] but panics on error.
func MustParseGraph6(s string) *Graph {
	g, err := ParseGraph6(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Graph6 encodes g in graph6 format using vertex positions as the order.
func (g *Graph) Graph6() string {
	n := len(g.ids)
	var sb strings.Builder
	encodeN(&sb, n)

	var cur byte
	k := 0
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			cur <<= 1
			if g.adj[i].Has(j) {
				cur |= 1
			}
			k++
			if k == 6 {
				sb.WriteByte(cur + g6Bias)
				cur, k = 0, 0
			}
		}
	}
	if k > 0 {
		sb.WriteByte(cur<<(6-k) + g6Bias)
	}
	return sb.String()
}

func decodeN(data []byte) (int, []byte, error) {
	if data[0] != g6MaxByte {
		return int(data[0] - g6Bias), data[1:], nil
	}
	if len(data) >= 2 && data[1] == g6MaxByte {
		if len(data) < 8 {
			return 0, nil, g6Error("truncated 36-bit vertex count")
		}
		return sixBits(data[2:8]), data[8:], nil
	}
	if len(data) < 4 {
		return 0, nil, g6Error("truncated 18-bit vertex count")
	}
	n := sixBits(data[1:4])
	if n < 63 {
		return 0, nil, g6Error("non-canonical vertex count %d", n)
	}
	return n, data[4:], nil
}

func encodeN(sb *strings.Builder, n int) {
	switch {
	case n <= 62:
		sb.WriteByte(byte(n) + g6Bias)
	case n <= 258047:
		sb.WriteByte(g6MaxByte)
		writeSixBits(sb, n, 3)
	default:
		sb.WriteByte(g6MaxByte)
		sb.WriteByte(g6MaxByte)
		writeSixBits(sb, n, 6)
	}
}

func sixBits(b []byte) int {
	n := 0
	for _, c := range b {
		n = n<<6 | int(c-g6Bias)
	}
	return n
}

func writeSixBits(sb *strings.Builder, n, groups int) {
	for i := groups - 1; i >= 0; i-- {
		sb.WriteByte(byte((n>>(6*i))&0x3f) + g6Bias)
	}
}

func g6Bit(data []byte, k int) bool {
	return (data[k/6]-g6Bias)&(1<<(5-k%6)) != 0
}

func g6Error(format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeInvalidGraph, ErrGraph6, format, args...)
}
