// Package store holds the in-memory graph of a single diagram together with
// its derived node positions and resolved links.
package store

import (
	"errors"
	"strings"

	"github.com/sigco3111/relationship-visualizer/pkg/common"
	"github.com/sigco3111/relationship-visualizer/pkg/graph"
	"github.com/sigco3111/relationship-visualizer/pkg/layout"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
)

var (
	ErrEmptyName     = errors.New("character name is empty")
	ErrDuplicateName = errors.New("character name already exists")
	ErrEmptyEndpoint = errors.New("relationship endpoint is empty")
)

// Store owns the characters and relationships of one diagram and keeps the
// derived nodes and links consistent with them:
//   - there is exactly one node per character, with ID equal to the name
//   - every link references two existing nodes
//
// Adding a character or replacing the graph lays every node out again.
// Adding a relationship or moving a node only re-resolves links, so manual
// placements survive.
//
// A Store is not safe for concurrent use.
type Store struct {
	canvas        layout.Canvas
	characters    []common.Character
	relationships []common.Relationship
	nodes         []common.PositionedNode
	links         []common.ResolvedLink
}

// New creates an empty store laid out on canvas.
func New(canvas layout.Canvas) *Store {
	return &Store{
		canvas:        canvas,
		characters:    []common.Character{},
		relationships: []common.Relationship{},
		nodes:         []common.PositionedNode{},
		links:         []common.ResolvedLink{},
	}
}

// AddCharacter appends c and lays out every node again. The name is trimmed
// before it is checked and stored.
func (s *Store) AddCharacter(c common.Character) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrEmptyName
	}
	if s.HasNode(c.Name) {
		return ErrDuplicateName
	}

	s.characters = append(s.characters, c)
	s.relayout()
	return nil
}

// AddRelationship appends r. Endpoints that do not name an existing character
// are accepted; such a relationship is kept but produces no link.
func (s *Store) AddRelationship(r common.Relationship) error {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	if r.From == "" || r.To == "" {
		return ErrEmptyEndpoint
	}

	s.relationships = append(s.relationships, r)
	s.resolve()
	return nil
}

// Replace swaps in g, typically a normalized analysis result, and lays it out
// from scratch. Characters with an empty or repeated name are skipped.
func (s *Store) Replace(g common.Graph) {
	chars := make([]common.Character, 0, len(g.Characters))
	seen := make(map[string]struct{}, len(g.Characters))
	for _, c := range g.Characters {
		if c.Name == "" {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			logger.Debug("[Store] Skipping repeated character", "name", c.Name)
			continue
		}
		seen[c.Name] = struct{}{}
		chars = append(chars, c)
	}

	rels := make([]common.Relationship, len(g.Relationships))
	copy(rels, g.Relationships)

	s.characters = chars
	s.relationships = rels
	s.relayout()
}

// Reposition moves the node with the given id to p and re-resolves links so
// that their endpoints follow. It reports whether a node matched.
func (s *Store) Reposition(id string, p common.Point) bool {
	if !s.HasNode(id) {
		return false
	}
	s.nodes = layout.Reposition(s.nodes, id, p)
	s.resolve()
	return true
}

func (s *Store) relayout() {
	s.nodes = layout.Radial(s.canvas, s.characters)
	s.resolve()
}

func (s *Store) resolve() {
	s.links = graph.ResolveLinks(s.relationships, s.nodes)
}

// Graph returns a copy of the characters and relationships.
func (s *Store) Graph() common.Graph {
	return common.Graph{
		Characters:    s.Characters(),
		Relationships: s.Relationships(),
	}
}

// Characters returns a copy of the character list.
func (s *Store) Characters() []common.Character {
	out := make([]common.Character, len(s.characters))
	copy(out, s.characters)
	return out
}

// Relationships returns a copy of the relationship list, including
// relationships that resolve to no link.
func (s *Store) Relationships() []common.Relationship {
	out := make([]common.Relationship, len(s.relationships))
	copy(out, s.relationships)
	return out
}

// Nodes returns a copy of the positioned nodes in character order.
func (s *Store) Nodes() []common.PositionedNode {
	out := make([]common.PositionedNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Links returns a copy of the resolved links in relationship order.
func (s *Store) Links() []common.ResolvedLink {
	out := make([]common.ResolvedLink, len(s.links))
	copy(out, s.links)
	return out
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (common.PositionedNode, bool) {
	return layout.Find(s.nodes, id)
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	_, ok := layout.Find(s.nodes, id)
	return ok
}

// Canvas returns the canvas the store lays nodes out on.
func (s *Store) Canvas() layout.Canvas {
	return s.canvas
}
