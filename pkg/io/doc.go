// Package io reads and writes architecture diagrams as JSON documents.
//
// # Overview
//
// The textual diagram grammar is handled elsewhere; this package defines
// the structured form the rest of archdraw consumes. A document lists
// groups, services and edges:
//
//	{
//	  "groups": [
//	    {"id": "api", "title": "Public API", "icon": "cloud"}
//	  ],
//	  "services": [
//	    {"id": "db", "title": "Database", "icon": "database", "in": "api"},
//	    {"id": "web", "title": "Web"}
//	  ],
//	  "edges": [
//	    {"source": "web", "sourceDir": "R", "target": "db", "targetDir": "L"}
//	  ]
//	}
//
// # Fields
//
// Groups and services need an id; title, icon and the enclosing group
// ("in") are optional. Edges need a source and a target. Directions take
// T, B, L, R or up, down, left, right, and default to R for the source
// and L for the target. An edge without an id is named "source-target",
// with a numeric suffix if that is taken, so re-reading the same document
// always yields the same ids.
//
// # Ordering
//
// Groups may list a parent that appears later in the document; they are
// added parents first, otherwise in document order. Services and edges are
// added in document order. Insertion order drives layout and drawing, so
// the same document always renders the same way.
//
// # Errors
//
// Decoding errors are INVALID_FORMAT. Model errors (UNKNOWN_ENTITY,
// DUPLICATE_ID, INVALID_INPUT) pass through, wrapped with the entity that
// caused them.
package io
