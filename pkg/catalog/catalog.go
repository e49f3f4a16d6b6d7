// Package catalog holds the fixed reference data used to style a relationship
// diagram: one color per character role and one color plus label per
// relationship type.
//
// All lookups are total. Unknown roles fall back to the minor style and
// unknown relationship types fall back to a gray line without a label.
package catalog

import "github.com/sigco3111/relationship-visualizer/pkg/common"

// Style is the visual treatment of a role or relationship type.
type Style struct {
	Color string `json:"color"`
	Label string `json:"label,omitempty"`
}

// DefaultLinkColor is used for relationship types outside the catalog.
const DefaultLinkColor = "#95a5a6"

var roles = []common.Role{
	common.RoleMain,
	common.RoleSupport,
	common.RoleVillain,
	common.RoleMinor,
}

var roleStyles = map[common.Role]Style{
	common.RoleMain:    {Color: "#ff6b6b"},
	common.RoleSupport: {Color: "#4ecdc4"},
	common.RoleVillain: {Color: "#45b7d1"},
	common.RoleMinor:   {Color: "#96ceb4"},
}

var relationshipTypes = []common.RelationshipType{
	common.RelationshipFamily,
	common.RelationshipLover,
	common.RelationshipFriend,
	common.RelationshipEnemy,
	common.RelationshipColleague,
	common.RelationshipMentor,
}

var relationshipStyles = map[common.RelationshipType]Style{
	common.RelationshipFamily:    {Color: "#e74c3c", Label: "Family"},
	common.RelationshipLover:     {Color: "#e91e63", Label: "Lover"},
	common.RelationshipFriend:    {Color: "#2ecc71", Label: "Friend"},
	common.RelationshipEnemy:     {Color: "#9b59b6", Label: "Enemy"},
	common.RelationshipColleague: {Color: "#f39c12", Label: "Colleague"},
	common.RelationshipMentor:    {Color: "#34495e", Label: "Mentor"},
}

// RoleStyle returns the style for a role. Roles outside the catalog are
// rendered like minor characters.
func RoleStyle(role common.Role) Style {
	if s, ok := roleStyles[role]; ok {
		return s
	}
	return roleStyles[common.RoleMinor]
}

// LookupRelationship returns the style for a relationship type and whether
// the type is part of the catalog.
func LookupRelationship(t common.RelationshipType) (Style, bool) {
	s, ok := relationshipStyles[t]
	if !ok {
		return Style{Color: DefaultLinkColor}, false
	}
	return s, true
}

// RelationshipStyle returns the style for a relationship type, falling back to
// a gray line with an empty label.
func RelationshipStyle(t common.RelationshipType) Style {
	s, _ := LookupRelationship(t)
	return s
}

// IsRole reports whether role is one of the catalog roles.
func IsRole(role common.Role) bool {
	_, ok := roleStyles[role]
	return ok
}

// IsRelationshipType reports whether t is one of the catalog relationship types.
func IsRelationshipType(t common.RelationshipType) bool {
	_, ok := relationshipStyles[t]
	return ok
}

// Roles returns the catalog roles in display order.
func Roles() []common.Role {
	out := make([]common.Role, len(roles))
	copy(out, roles)
	return out
}

// RelationshipTypes returns the catalog relationship types in display order.
func RelationshipTypes() []common.RelationshipType {
	out := make([]common.RelationshipType, len(relationshipTypes))
	copy(out, relationshipTypes)
	return out
}
