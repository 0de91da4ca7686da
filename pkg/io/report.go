package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/cliquecrit/pkg/buildinfo"
	"github.com/matzehuels/cliquecrit/pkg/cache"
	"github.com/matzehuels/cliquecrit/pkg/classify"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

// Report is a serialized classification run.
type Report struct {
	RunID         string           `json:"run_id" toml:"run_id"`
	Version       string           `json:"version,omitempty" toml:"version,omitempty"`
	CreatedAt     time.Time        `json:"created_at" toml:"created_at"`
	Capacity      int              `json:"capacity" toml:"capacity"`
	AtlasMaxOrder int              `json:"atlas_max_order,omitempty" toml:"atlas_max_order,omitempty"`
	Buckets       []Bucket         `json:"buckets" toml:"buckets"`
	Sources       []classify.Stats `json:"sources,omitempty" toml:"sources,omitempty"`
}

// Bucket is one classification bucket in graph6 notation.
type Bucket struct {
	Key    classify.Key `json:"key" toml:"key"`
	Graphs []string     `json:"graphs" toml:"graphs"`
}

// NewReport snapshots m into a report with a fresh run ID.
func NewReport(m *classify.Map, capacity, atlasMaxOrder int, sources []classify.Stats) *Report {
	r := &Report{
		RunID:         uuid.NewString(),
		Version:       buildinfo.Version,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		Capacity:      capacity,
		AtlasMaxOrder: atlasMaxOrder,
		Buckets:       make([]Bucket, 0, m.Len()),
		Sources:       sources,
	}
	for key, graphs := range m.All() {
		b := Bucket{Key: key, Graphs: make([]string, len(graphs))}
		for i, g := range graphs {
			b.Graphs[i] = g.Graph6()
		}
		r.Buckets = append(r.Buckets, b)
	}
	return r
}

// Map rebuilds the classification map. Buckets keep their graph order.
func (r *Report) Map() (*classify.Map, error) {
	m := classify.NewMap()
	for _, b := range r.Buckets {
		for i, s := range b.Graphs {
			g, err := graph.ParseGraph6(s)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "bucket %s: graph %d", b.Key, i+1)
			}
			m.Append(b.Key, g)
		}
	}
	return m, nil
}

// Total returns the number of graphs across all buckets.
func (r *Report) Total() int {
	n := 0
	for _, b := range r.Buckets {
		n += len(b.Graphs)
	}
	return n
}

// Hash identifies the classification content of the report. Run ID,
// timestamp and statistics are excluded, so two runs that produced the same
// buckets hash alike.
func (r *Report) Hash() string {
	var buf bytes.Buffer
	for _, b := range r.Buckets {
		fmt.Fprintf(&buf, "%s:", b.Key)
		for _, s := range b.Graphs {
			buf.WriteString(s)
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	return cache.Hash(buf.Bytes())
}

// WriteJSON encodes a report as indented JSON and writes it to w.
func WriteJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a report from r and validates every bucket.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		if errs.GetCode(err) != "" {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode report")
	}
	if _, err := rep.Map(); err != nil {
		return nil, err
	}
	return &rep, nil
}

// WriteTOML encodes a report as TOML and writes it to w.
func WriteTOML(r *Report, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a report to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportJSON reads and validates the report stored at path.
func ImportJSON(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "report %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
