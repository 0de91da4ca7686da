package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cliquecrit/pkg/classify"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
)

func testMap() *classify.Map {
	m := classify.NewMap()
	m.Append(classify.Index(3), graph.Complete(2))
	m.Append(classify.Index(3), graph.Complete(3))
	m.Append(classify.NoMatch, graph.Cycle(5))
	m.Append(classify.Index(1), graph.Empty(1))
	return m
}

func TestReportRoundTrip(t *testing.T) {
	stats := []classify.Stats{{Source: "atlas", Examined: 10, Accepted: 4}}
	r := NewReport(testMap(), 6, 7, stats)

	if r.RunID == "" {
		t.Error("missing run ID")
	}
	if r.Total() != 4 {
		t.Errorf("Total() = %d, want 4", r.Total())
	}

	var buf bytes.Buffer
	if err := WriteJSON(r, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"key": "unclassified"`) {
		t.Errorf("NoMatch key not encoded:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.RunID != r.RunID || !got.CreatedAt.Equal(r.CreatedAt) || got.Capacity != 6 || got.AtlasMaxOrder != 7 {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Sources) != 1 || got.Sources[0].Accepted != 4 {
		t.Errorf("sources = %+v", got.Sources)
	}
	if got.Hash() != r.Hash() {
		t.Error("hash changed across round trip")
	}

	m, err := got.Map()
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	want := testMap()
	if m.Len() != want.Len() || m.Total() != want.Total() {
		t.Fatalf("map has %d buckets / %d graphs, want %d / %d", m.Len(), m.Total(), want.Len(), want.Total())
	}
	for _, k := range want.Keys() {
		a, b := m.Bucket(k), want.Bucket(k)
		if len(a) != len(b) {
			t.Errorf("bucket %s: %d graphs, want %d", k, len(a), len(b))
			continue
		}
		for i := range a {
			if a[i].Graph6() != b[i].Graph6() {
				t.Errorf("bucket %s graph %d: %s, want %s", k, i, a[i].Graph6(), b[i].Graph6())
			}
		}
	}
}

func TestReportBucketOrder(t *testing.T) {
	r := NewReport(testMap(), 6, 7, nil)
	var keys []string
	for _, b := range r.Buckets {
		keys = append(keys, b.Key.String())
	}
	if got := strings.Join(keys, ","); got != "1,3,unclassified" {
		t.Errorf("bucket order = %s", got)
	}
}

func TestReportHash(t *testing.T) {
	a := NewReport(testMap(), 6, 7, nil)
	b := NewReport(testMap(), 4, 7, []classify.Stats{{Source: "x"}})
	if a.Hash() != b.Hash() {
		t.Error("hash should depend on buckets only")
	}
	m := testMap()
	m.Append(classify.Index(1), graph.Empty(1))
	if NewReport(m, 6, 7, nil).Hash() == a.Hash() {
		t.Error("hash should change with bucket content")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"malformed json", `{"buckets": [`, errs.ErrCodeInvalidFormat},
		{"bad key", `{"buckets": [{"key": "x", "graphs": []}]}`, errs.ErrCodeInvalidFormat},
		{"bad graph6", `{"buckets": [{"key": "3", "graphs": ["A_", "A"]}]}`, errs.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errs.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteTOML(t *testing.T) {
	r := NewReport(testMap(), 6, 7, []classify.Stats{{Source: "atlas", Examined: 3}})
	var buf bytes.Buffer
	if err := WriteTOML(r, &buf); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}

	var back struct {
		RunID    string `toml:"run_id"`
		Capacity int    `toml:"capacity"`
		Buckets  []struct {
			Key    string   `toml:"key"`
			Graphs []string `toml:"graphs"`
		} `toml:"buckets"`
	}
	if _, err := toml.Decode(buf.String(), &back); err != nil {
		t.Fatalf("decode TOML: %v\n%s", err, buf.String())
	}
	if back.RunID != r.RunID || back.Capacity != 6 || len(back.Buckets) != 3 {
		t.Errorf("TOML mismatch: %+v", back)
	}
	if back.Buckets[2].Key != "unclassified" {
		t.Errorf("last bucket key = %q", back.Buckets[2].Key)
	}
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := NewReport(testMap(), 6, 7, nil)
	if err := ExportJSON(r, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.Total() != r.Total() {
		t.Errorf("Total() = %d, want %d", got.Total(), r.Total())
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportJSON(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}
