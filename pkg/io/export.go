package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/archdraw/pkg/diagram"
)

// Document is the JSON form of a diagram.
type Document struct {
	Groups   []Entity `json:"groups,omitempty"`
	Services []Entity `json:"services,omitempty"`
	Edges    []Edge   `json:"edges,omitempty"`
}

// Entity is a group or service entry.
type Entity struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Icon  string `json:"icon,omitempty"`
	In    string `json:"in,omitempty"`
}

// Edge is a connection entry.
type Edge struct {
	ID        string `json:"id,omitempty"`
	Source    string `json:"source"`
	SourceDir string `json:"sourceDir,omitempty"`
	Target    string `json:"target"`
	TargetDir string `json:"targetDir,omitempty"`
	Title     string `json:"title,omitempty"`
}

// FromModel converts a model back to its document form, in insertion
// order, with every edge id and direction spelled out.
func FromModel(m *diagram.Model) Document {
	var doc Document
	m.ForEachGroup(func(g diagram.Group) bool {
		doc.Groups = append(doc.Groups, Entity{ID: g.ID, Title: g.Title, Icon: g.Icon, In: g.Parent})
		return true
	})
	m.ForEachNode(func(n diagram.Node) bool {
		doc.Services = append(doc.Services, Entity{ID: n.ID, Title: n.Title, Icon: n.Icon, In: n.Parent})
		return true
	})
	m.ForEachEdge(func(e diagram.Edge) bool {
		doc.Edges = append(doc.Edges, Edge{
			ID: e.ID, Source: e.Source, SourceDir: e.SourceDir.Letter(),
			Target: e.Target, TargetDir: e.TargetDir.Letter(), Title: e.Title,
		})
		return true
	})
	return doc
}

// WriteJSON encodes m as an indented document and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(m *diagram.Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromModel(m)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes m to a JSON file at path.
func ExportJSON(m *diagram.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}

// MarshalModel returns the compact canonical encoding of m. Two models
// built from equivalent documents marshal identically, which makes the
// output suitable for cache keys.
func MarshalModel(m *diagram.Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(FromModel(m)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
