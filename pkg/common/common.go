package common

// Role is the narrative category of a character. Values coming from an
// analysis payload are carried verbatim, so a Role may hold a string outside
// the known set; the catalog maps those to a default style.
type Role string

const (
	RoleMain    Role = "main"
	RoleSupport Role = "support"
	RoleVillain Role = "villain"
	RoleMinor   Role = "minor"
)

// RelationshipType is the category of an edge between two characters. Like
// Role it is not validated on creation.
type RelationshipType string

const (
	RelationshipFamily    RelationshipType = "family"
	RelationshipLover     RelationshipType = "lover"
	RelationshipFriend    RelationshipType = "friend"
	RelationshipEnemy     RelationshipType = "enemy"
	RelationshipColleague RelationshipType = "colleague"
	RelationshipMentor    RelationshipType = "mentor"
)

// Graph is the source of truth for a relationship diagram: the characters
// and the directed relationships between them.
//
// A graph contains:
//   - Characters: the nodes, identified by their unique name
//   - Relationships: directed edges referencing characters by name
//
// Relationships are not required to reference existing characters. Edges
// whose endpoints cannot be resolved are dropped when links are resolved.
type Graph struct {
	Characters    []Character    `json:"characters"`
	Relationships []Relationship `json:"relationships"`
}

// NewGraph returns an empty graph with non-nil slices so that it always
// encodes as arrays.
func NewGraph() Graph {
	return Graph{
		Characters:    []Character{},
		Relationships: []Relationship{},
	}
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{
		Characters:    make([]Character, len(g.Characters)),
		Relationships: make([]Relationship, len(g.Relationships)),
	}
	copy(out.Characters, g.Characters)
	copy(out.Relationships, g.Relationships)
	return out
}

// Character is a named participant of a story. Name doubles as the node id
// and must be unique within a graph.
type Character struct {
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	Description string `json:"description"`
}

// Relationship is a directed, labeled edge between two character names.
type Relationship struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Type        RelationshipType `json:"type"`
	Description string           `json:"description"`
}

// Point is a coordinate in the logical canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PositionedNode is the renderable projection of a Character. It is derived
// from the character list and never owned independently; X and Y are the only
// fields that change while a node is dragged.
type PositionedNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Role        Role    `json:"role"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Color       string  `json:"color"`
}

// Position returns the node coordinates as a Point.
func (n PositionedNode) Position() Point {
	return Point{X: n.X, Y: n.Y}
}

// ResolvedLink is the renderable projection of a Relationship whose endpoints
// were both found among the current nodes.
type ResolvedLink struct {
	Source      PositionedNode   `json:"source"`
	Target      PositionedNode   `json:"target"`
	Type        RelationshipType `json:"type"`
	Description string           `json:"description"`
	Color       string           `json:"color"`
	Label       string           `json:"label,omitempty"`
}
