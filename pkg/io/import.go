package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/errors"
)

// ReadJSON decodes a diagram document from r into a new model.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*diagram.Model, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode diagram")
	}
	return Build(doc)
}

// ImportJSON reads a diagram document from the file at path.
func ImportJSON(path string) (*diagram.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Build adds the entities of doc to a new model.
func Build(doc Document) (*diagram.Model, error) {
	m := diagram.New()

	groups, err := orderGroups(doc.Groups)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if err := m.AddGroup(diagram.Group{ID: g.ID, Title: g.Title, Icon: g.Icon, Parent: g.In}); err != nil {
			return nil, fmt.Errorf("group %s: %w", g.ID, err)
		}
	}
	for _, s := range doc.Services {
		if err := m.AddNode(diagram.Node{ID: s.ID, Title: s.Title, Icon: s.Icon, Parent: s.In}); err != nil {
			return nil, fmt.Errorf("service %s: %w", s.ID, err)
		}
	}

	// Explicit edge ids win over generated ones, wherever they appear.
	explicit := make(map[string]bool, len(doc.Edges))
	for _, e := range doc.Edges {
		if e.ID != "" {
			explicit[e.ID] = true
		}
	}
	for _, e := range doc.Edges {
		src, err := direction(e.SourceDir, diagram.Right)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: source: %w", e.Source, e.Target, err)
		}
		dst, err := direction(e.TargetDir, diagram.Left)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: target: %w", e.Source, e.Target, err)
		}
		id := e.ID
		if id == "" {
			id = edgeID(m, explicit, e.Source, e.Target)
		}
		err = m.AddEdge(diagram.Edge{
			ID: id, Source: e.Source, SourceDir: src,
			Target: e.Target, TargetDir: dst, Title: e.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", id, err)
		}
	}
	return m, nil
}

// orderGroups returns groups with every parent ahead of its children,
// otherwise keeping document order. A parent that never appears, or a
// containment cycle, is UNKNOWN_ENTITY.
func orderGroups(groups []Entity) ([]Entity, error) {
	declared := make(map[string]bool, len(groups))
	for _, g := range groups {
		declared[g.ID] = true
	}

	out := make([]Entity, 0, len(groups))
	added := make(map[string]bool, len(groups))
	pending := groups
	for len(pending) > 0 {
		var next []Entity
		for _, g := range pending {
			if g.In == "" || added[g.In] {
				out = append(out, g)
				added[g.ID] = true
				continue
			}
			next = append(next, g)
		}
		if len(next) == len(pending) {
			g := next[0]
			if !declared[g.In] {
				return nil, errors.New(errors.ErrCodeUnknownEntity, "group %s: unknown parent group %q", g.ID, g.In)
			}
			return nil, errors.New(errors.ErrCodeUnknownEntity, "group %s: containment cycle through %q", g.ID, g.In)
		}
		pending = next
	}
	return out, nil
}

func direction(s string, def diagram.Direction) (diagram.Direction, error) {
	if s == "" {
		return def, nil
	}
	return diagram.ParseDirection(s)
}

// edgeID generates "source-target", suffixed -2, -3... past ids already
// in m or reserved by the document.
func edgeID(m *diagram.Model, reserved map[string]bool, source, target string) string {
	base := source + "-" + target
	if !m.Has(base) && !reserved[base] {
		return base
	}
	for i := 2; ; i++ {
		id := base + "-" + strconv.Itoa(i)
		if !m.Has(id) && !reserved[id] {
			return id
		}
	}
}
