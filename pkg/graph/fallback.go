package graph

import "github.com/sigco3111/relationship-visualizer/pkg/common"

const (
	fallbackProtagonist = "Protagonist"
	fallbackSupporting  = "Supporting"
	fallbackAntagonist  = "Antagonist"
)

// ParseFailureGraph is the starter graph used when an answer arrived but
// could not be read: a protagonist and a friend.
func ParseFailureGraph() common.Graph {
	return common.Graph{
		Characters: []common.Character{
			{Name: fallbackProtagonist, Role: common.RoleMain, Description: "The protagonist of the work"},
			{Name: fallbackSupporting, Role: common.RoleSupport, Description: "A character who helps the protagonist"},
		},
		Relationships: []common.Relationship{
			{From: fallbackProtagonist, To: fallbackSupporting, Type: common.RelationshipFriend, Description: "Friends"},
		},
	}
}

// TransportFailureGraph is the starter graph used when the inference call
// failed. It extends the parse-failure graph with an antagonist.
func TransportFailureGraph() common.Graph {
	g := ParseFailureGraph()
	g.Characters = append(g.Characters, common.Character{
		Name: fallbackAntagonist, Role: common.RoleVillain, Description: "A character who opposes the protagonist",
	})
	g.Relationships = append(g.Relationships, common.Relationship{
		From: fallbackProtagonist, To: fallbackAntagonist, Type: common.RelationshipEnemy, Description: "Enemies",
	})
	return g
}
