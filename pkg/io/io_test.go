package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/errors"
)

const sampleDoc = `{
  "groups": [
    {"id": "private", "title": "Private", "in": "cloud"},
    {"id": "cloud", "title": "Cloud", "icon": "cloud"}
  ],
  "services": [
    {"id": "db", "title": "Database", "icon": "database", "in": "private"},
    {"id": "web", "title": "Web"}
  ],
  "edges": [
    {"source": "web", "target": "db"},
    {"source": "web", "sourceDir": "B", "target": "db", "targetDir": "top"},
    {"id": "named", "source": "db", "target": "web", "title": "reply"}
  ]
}`

func TestReadJSON(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	groups := m.Groups()
	if len(groups) != 2 || groups[0].ID != "cloud" || groups[1].ID != "private" {
		t.Errorf("groups = %+v, want parent first", groups)
	}
	if n, _ := m.Node("db"); n.Parent != "private" || n.Icon != "database" {
		t.Errorf("db = %+v", n)
	}

	edges := m.Edges()
	wantIDs := []string{"web-db", "web-db-2", "named"}
	for i, want := range wantIDs {
		if edges[i].ID != want {
			t.Errorf("edge %d id = %q, want %q", i, edges[i].ID, want)
		}
	}
	if edges[0].SourceDir != diagram.Right || edges[0].TargetDir != diagram.Left {
		t.Errorf("default directions = %v/%v, want right/left", edges[0].SourceDir, edges[0].TargetDir)
	}
	if edges[1].SourceDir != diagram.Down || edges[1].TargetDir != diagram.Up {
		t.Errorf("explicit directions = %v/%v, want down/up", edges[1].SourceDir, edges[1].TargetDir)
	}
}

func TestReadJSONExplicitIDReserved(t *testing.T) {
	const doc = `{
  "services": [{"id": "a"}, {"id": "b"}],
  "edges": [
    {"source": "a", "target": "b"},
    {"source": "a", "target": "b"},
    {"id": "a-b", "source": "b", "target": "a"}
  ]
}`
	m, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	var got []string
	for _, e := range m.Edges() {
		got = append(got, e.ID)
	}
	want := []string{"a-b-2", "a-b-3", "a-b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("edge ids = %v, want %v", got, want)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", `{"services": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"nodes": []}`, errors.ErrCodeInvalidFormat},
		{"unknown edge target", `{"services": [{"id": "a"}], "edges": [{"source": "a", "target": "b"}]}`, errors.ErrCodeUnknownEntity},
		{"unknown parent", `{"services": [{"id": "a", "in": "g"}]}`, errors.ErrCodeUnknownEntity},
		{"unknown group parent", `{"groups": [{"id": "g", "in": "h"}]}`, errors.ErrCodeUnknownEntity},
		{"group cycle", `{"groups": [{"id": "g", "in": "h"}, {"id": "h", "in": "g"}]}`, errors.ErrCodeUnknownEntity},
		{"duplicate", `{"groups": [{"id": "a"}], "services": [{"id": "a"}]}`, errors.ErrCodeDuplicateID},
		{"bad direction", `{"services": [{"id": "a"}], "edges": [{"source": "a", "sourceDir": "X", "target": "a"}]}`, errors.ErrCodeInvalidInput},
		{"empty id", `{"services": [{"id": ""}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON()) error = %v", err)
	}

	a, _ := MarshalModel(m)
	b, _ := MarshalModel(back)
	if !bytes.Equal(a, b) {
		t.Errorf("round trip changed the model:\n%s\n%s", a, b)
	}
}

func TestMarshalModelCanonical(t *testing.T) {
	// Same diagram, different spelling.
	spelled := `{"services": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "sourceDir": "right", "target": "b", "targetDir": "left"}]}`
	terse := `{"services": [{"id": "a"}, {"id": "b"}], "edges": [{"id": "a-b", "source": "a", "target": "b"}]}`

	m1, err := ReadJSON(strings.NewReader(spelled))
	if err != nil {
		t.Fatal(err)
	}
	m2, err := ReadJSON(strings.NewReader(terse))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := MarshalModel(m1)
	b, _ := MarshalModel(m2)
	if !bytes.Equal(a, b) {
		t.Errorf("MarshalModel() differs:\n%s\n%s", a, b)
	}
	if bytes.HasSuffix(a, []byte("\n")) {
		t.Error("MarshalModel() output ends with a newline")
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	m, err := ReadJSON(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "diagram.json")
	if err := ExportJSON(m, path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if back.NodeCount() != 2 || back.GroupCount() != 2 || back.EdgeCount() != 3 {
		t.Errorf("imported %d/%d/%d entities", back.NodeCount(), back.GroupCount(), back.EdgeCount())
	}

	_, err = ImportJSON(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ImportJSON(missing) error = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatal(statErr)
	}
}
